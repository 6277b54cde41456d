package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type studentProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, int, error)
	Update(ctx context.Context, profile *models.Profile) error
	DeleteCascade(ctx context.Context, studentID string) error
}

// UpdateBioDataRequest carries the student-editable profile fields.
type UpdateBioDataRequest struct {
	Surname       string `json:"surname" validate:"required"`
	FirstName     string `json:"first_name" validate:"required"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"marital_status"`
	DateOfBirth   string `json:"date_of_birth"`
	Address       string `json:"address"`
	Country       string `json:"country"`
	StateOfOrigin string `json:"state_of_origin"`
	LGA           string `json:"lga"`
	PhoneNumber   string `json:"phone_number"`
	Religion      string `json:"religion"`

	NextOfKinName     string `json:"next_of_kin_name"`
	NextOfKinPhone    string `json:"next_of_kin_phone"`
	NextOfKinAddress  string `json:"next_of_kin_address"`
	NextOfKinRelation string `json:"next_of_kin_relationship"`
	NextOfKinEmail    string `json:"next_of_kin_email"`
}

// StudentService serves profile reads and updates for students and the
// admin student directory.
type StudentService struct {
	profiles  studentProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(profiles studentProfileRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{profiles: profiles, validator: validate, logger: logger}
}

// Get returns one profile.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return profile, nil
}

// List returns profiles matching the filter for the admin directory.
func (s *StudentService) List(ctx context.Context, filter models.ProfileFilter) ([]models.Profile, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	profiles, total, err := s.profiles.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return profiles, pagination, nil
}

// UpdateBioData applies the student-editable fields to the caller's own
// profile. Identity fields like email, matric number and approval state are
// untouchable here.
func (s *StudentService) UpdateBioData(ctx context.Context, studentID string, req UpdateBioDataRequest) (*models.Profile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bio data payload")
	}

	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	fullName := strings.Join(strings.Fields(strings.Join([]string{req.Surname, req.FirstName, req.LastName}, " ")), " ")
	profile.FullName = fullName
	profile.Surname = optional(req.Surname)
	profile.FirstName = optional(req.FirstName)
	profile.LastName = optional(req.LastName)
	profile.Gender = optional(req.Gender)
	profile.MaritalStatus = optional(req.MaritalStatus)
	profile.DateOfBirth = optional(req.DateOfBirth)
	profile.Address = optional(req.Address)
	profile.Country = optional(req.Country)
	profile.StateOfOrigin = optional(req.StateOfOrigin)
	profile.LGA = optional(req.LGA)
	profile.PhoneNumber = optional(req.PhoneNumber)
	profile.Religion = optional(req.Religion)
	profile.NextOfKinName = optional(req.NextOfKinName)
	profile.NextOfKinPhone = optional(req.NextOfKinPhone)
	profile.NextOfKinAddress = optional(req.NextOfKinAddress)
	profile.NextOfKinRelation = optional(req.NextOfKinRelation)
	profile.NextOfKinEmail = optional(req.NextOfKinEmail)

	if err := s.profiles.Update(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update bio data")
	}
	return profile, nil
}

// Delete removes a student and all dependent records.
func (s *StudentService) Delete(ctx context.Context, studentID string) error {
	if _, err := s.profiles.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.profiles.DeleteCascade(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", studentID))
	return nil
}
