package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type enrollmentRepository interface {
	ReplaceForPeriod(ctx context.Context, studentID string, semester int, session string, courseIDs []string) error
	ListForPeriod(ctx context.Context, studentID string, semester int, session string) ([]models.EnrolledCourse, error)
}

type enrollmentCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollRequest replaces a student's course selection for a period.
type EnrollRequest struct {
	Semester  int      `json:"semester" validate:"required,min=1,max=2"`
	Session   string   `json:"session" validate:"required"`
	CourseIDs []string `json:"course_ids" validate:"required,min=1,dive,required"`
}

// EnrollmentService manages per-period course selections.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   enrollmentCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseRepository, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Enroll replaces the student's selection for the semester and session. Each
// course must exist and a duplicated id in the selection is rejected.
// Resubmitting an identical selection is harmless.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID string, req EnrollRequest) ([]models.EnrolledCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	seen := make(map[string]struct{}, len(req.CourseIDs))
	for _, courseID := range req.CourseIDs {
		if _, dup := seen[courseID]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duplicate course in selection")
		}
		seen[courseID] = struct{}{}

		if _, err := s.courses.FindByID(ctx, courseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found: "+courseID)
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
	}

	if err := s.repo.ReplaceForPeriod(ctx, studentID, req.Semester, req.Session, req.CourseIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store enrollment")
	}

	enrolled, err := s.repo.ListForPeriod(ctx, studentID, req.Semester, req.Session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload enrollment")
	}
	return enrolled, nil
}

// List returns the student's enrollments for the semester and session.
func (s *EnrollmentService) List(ctx context.Context, studentID string, semester int, session string) ([]models.EnrolledCourse, error) {
	enrolled, err := s.repo.ListForPeriod(ctx, studentID, semester, session)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollment")
	}
	return enrolled, nil
}
