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

type academicRepository interface {
	FindByStudent(ctx context.Context, studentID string) (*models.AcademicDetails, error)
	Upsert(ctx context.Context, details *models.AcademicDetails) error
	UpdateProgramme(ctx context.Context, studentID, programme, faculty string) error
}

// AcademicDetailsRequest creates or replaces a student's academic record.
type AcademicDetailsRequest struct {
	StudentID          string `json:"student_id" validate:"required"`
	Faculty            string `json:"faculty" validate:"required"`
	Programme          string `json:"programme" validate:"required"`
	RegistrationNumber string `json:"registration_number" validate:"required"`
	YearOfAdmission    int    `json:"year_of_admission" validate:"required,min=2000"`
	PaymentStatus      string `json:"payment_status"`
}

// ChangeProgrammeRequest is a student's programme change application.
type ChangeProgrammeRequest struct {
	Programme string `json:"programme" validate:"required"`
	Faculty   string `json:"faculty"`
	Reason    string `json:"reason" validate:"required"`
}

// AcademicService manages academic records and programme changes.
type AcademicService struct {
	repo      academicRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAcademicService constructs an AcademicService.
func NewAcademicService(repo academicRepository, validate *validator.Validate, logger *zap.Logger) *AcademicService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicService{repo: repo, validator: validate, logger: logger}
}

// Get returns the academic record for a student.
func (s *AcademicService) Get(ctx context.Context, studentID string) (*models.AcademicDetails, error) {
	details, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic details not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic details")
	}
	return details, nil
}

// Upsert creates or replaces a student's academic record.
func (s *AcademicService) Upsert(ctx context.Context, req AcademicDetailsRequest) (*models.AcademicDetails, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid academic details payload")
	}

	details := &models.AcademicDetails{
		StudentID:          req.StudentID,
		Faculty:            req.Faculty,
		Programme:          req.Programme,
		RegistrationNumber: req.RegistrationNumber,
		YearOfAdmission:    req.YearOfAdmission,
	}
	if req.PaymentStatus != "" {
		details.PaymentStatus = &req.PaymentStatus
	}
	if err := s.repo.Upsert(ctx, details); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store academic details")
	}
	return details, nil
}

// ChangeProgramme applies a programme change to the student's record.
func (s *AcademicService) ChangeProgramme(ctx context.Context, studentID string, req ChangeProgrammeRequest) (*models.AcademicDetails, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid programme change payload")
	}

	if _, err := s.repo.FindByStudent(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "academic details not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load academic details")
	}

	if err := s.repo.UpdateProgramme(ctx, studentID, req.Programme, req.Faculty); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to change programme")
	}

	s.logger.Info("programme changed",
		zap.String("student_id", studentID), zap.String("programme", req.Programme), zap.String("reason", req.Reason))

	details, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload academic details")
	}
	return details, nil
}
