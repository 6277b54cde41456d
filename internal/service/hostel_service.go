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

type hostelRepository interface {
	FindByStudent(ctx context.Context, studentID string) (*models.HostelAllocation, error)
	Upsert(ctx context.Context, allocation *models.HostelAllocation) error
	Delete(ctx context.Context, studentID string) error
}

// AllocateHostelRequest assigns a room to a student.
type AllocateHostelRequest struct {
	StudentID  string `json:"student_id" validate:"required"`
	HostelName string `json:"hostel_name" validate:"required"`
	Block      string `json:"block"`
	RoomNumber string `json:"room_number" validate:"required"`
	Status     string `json:"status"`
}

// HostelService manages room assignments.
type HostelService struct {
	repo      hostelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHostelService constructs a HostelService.
func NewHostelService(repo hostelRepository, validate *validator.Validate, logger *zap.Logger) *HostelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HostelService{repo: repo, validator: validate, logger: logger}
}

// Get returns the student's allocation.
func (s *HostelService) Get(ctx context.Context, studentID string) (*models.HostelAllocation, error) {
	allocation, err := s.repo.FindByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no hostel allocation")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hostel allocation")
	}
	return allocation, nil
}

// Allocate assigns or reassigns the student's room.
func (s *HostelService) Allocate(ctx context.Context, req AllocateHostelRequest) (*models.HostelAllocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid hostel payload")
	}

	allocation := &models.HostelAllocation{
		StudentID:  req.StudentID,
		HostelName: req.HostelName,
		RoomNumber: req.RoomNumber,
	}
	if req.Block != "" {
		allocation.Block = &req.Block
	}
	if req.Status != "" {
		allocation.Status = &req.Status
	}
	if err := s.repo.Upsert(ctx, allocation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store hostel allocation")
	}
	return allocation, nil
}

// Vacate removes the student's allocation.
func (s *HostelService) Vacate(ctx context.Context, studentID string) error {
	if err := s.repo.Delete(ctx, studentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to vacate hostel allocation")
	}
	return nil
}
