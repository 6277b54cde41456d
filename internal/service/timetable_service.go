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

type timetableRepository interface {
	Create(ctx context.Context, entry *models.TimetableEntry) error
	ListBySemester(ctx context.Context, semester int) ([]models.TimetableEntryDetail, error)
	Update(ctx context.Context, entry *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
}

// TimetableEntryRequest creates or updates a schedule slot.
type TimetableEntryRequest struct {
	CourseID  string `json:"course_id" validate:"required"`
	DayOfWeek string `json:"day_of_week" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	Venue     string `json:"venue" validate:"required"`
	Semester  int    `json:"semester" validate:"required,min=1,max=2"`
}

// TimetableService manages the lecture schedule.
type TimetableService struct {
	repo      timetableRepository
	courses   resultCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, courses resultCourseRepository, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// Create adds a schedule slot after checking the course exists.
func (s *TimetableService) Create(ctx context.Context, req TimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	entry := &models.TimetableEntry{
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venue:     req.Venue,
		Semester:  req.Semester,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable entry")
	}
	return entry, nil
}

// List returns the semester's schedule.
func (s *TimetableService) List(ctx context.Context, semester int) ([]models.TimetableEntryDetail, error) {
	entries, err := s.repo.ListBySemester(ctx, semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}
	return entries, nil
}

// Update rewrites a schedule slot.
func (s *TimetableService) Update(ctx context.Context, id string, req TimetableEntryRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	entry := &models.TimetableEntry{
		ID:        id,
		CourseID:  req.CourseID,
		DayOfWeek: req.DayOfWeek,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venue:     req.Venue,
		Semester:  req.Semester,
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable entry")
	}
	return entry, nil
}

// Delete removes a schedule slot.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	return nil
}
