package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type resultRepository interface {
	Upsert(ctx context.Context, result *models.Result) error
	ListWithCourses(ctx context.Context, filter models.ResultFilter) ([]models.ResultWithCourse, error)
}

type resultCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnterResultRequest records a score for a student in a course.
type EnterResultRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	CourseID  string  `json:"course_id" validate:"required"`
	Score     float64 `json:"score" validate:"min=0,max=100"`
	Semester  int     `json:"semester" validate:"required,min=1,max=2"`
	Session   string  `json:"session" validate:"required"`
}

// ResultSheet is a student's results for a period with the computed GPA.
type ResultSheet struct {
	Results     []models.ResultWithCourse `json:"results"`
	GPA         float64                   `json:"gpa"`
	TotalUnits  int                       `json:"total_units"`
	TotalPoints float64                   `json:"total_points"`
}

// DeriveGrade maps a score to its letter grade.
func DeriveGrade(score float64) models.Grade {
	switch {
	case score >= 70:
		return models.GradeA
	case score >= 60:
		return models.GradeB
	case score >= 50:
		return models.GradeC
	case score >= 45:
		return models.GradeD
	case score >= 40:
		return models.GradeE
	default:
		return models.GradeF
	}
}

// GradePoint maps a letter grade to its point value on the 5-point scale.
func GradePoint(grade models.Grade) float64 {
	switch grade {
	case models.GradeA:
		return 5
	case models.GradeB:
		return 4
	case models.GradeC:
		return 3
	case models.GradeD:
		return 2
	case models.GradeE:
		return 1
	default:
		return 0
	}
}

// ComputeGPA weights grade points by credit units, rounded to 2 decimals.
// An empty result set yields 0.
func ComputeGPA(results []models.ResultWithCourse) (gpa, totalPoints float64, totalUnits int) {
	for _, r := range results {
		totalUnits += r.CreditUnits
		totalPoints += GradePoint(r.Grade) * float64(r.CreditUnits)
	}
	if totalUnits == 0 {
		return 0, 0, 0
	}
	gpa = math.Round(totalPoints/float64(totalUnits)*100) / 100
	return gpa, totalPoints, totalUnits
}

// ResultService manages result entry and computed result sheets.
type ResultService struct {
	repo      resultRepository
	courses   resultCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs a ResultService.
func NewResultService(repo resultRepository, courses resultCourseRepository, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Enter records a score. The grade is always derived from the score, never
// taken from the caller, and re-entering the same (student, course, period)
// overwrites the previous score.
func (s *ResultService) Enter(ctx context.Context, req EnterResultRequest) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	result := &models.Result{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Score:     req.Score,
		Grade:     DeriveGrade(req.Score),
		Semester:  req.Semester,
		Session:   req.Session,
	}
	if err := s.repo.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store result")
	}
	return result, nil
}

// Sheet returns the student's results for the filter with a computed GPA.
func (s *ResultService) Sheet(ctx context.Context, filter models.ResultFilter) (*ResultSheet, error) {
	results, err := s.repo.ListWithCourses(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	gpa, points, units := ComputeGPA(results)
	return &ResultSheet{Results: results, GPA: gpa, TotalUnits: units, TotalPoints: points}, nil
}
