package service

import (
	"context"
	"database/sql"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error)
	AttachProof(ctx context.Context, id, proofURL string) error
}

type paymentNotifier interface {
	PaymentConfirmed(ctx context.Context, studentID string, payment *models.Payment)
}

// CreatePaymentRequest raises a fee against a student.
type CreatePaymentRequest struct {
	StudentID   string     `json:"student_id" validate:"required"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	PaymentType string     `json:"payment_type" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// PaymentService manages fee records. Students read their own fees and
// attach proof; only admins confirm payment.
type PaymentService struct {
	repo      paymentRepository
	store     fileStore
	notifier  paymentNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(repo paymentRepository, store fileStore, notifier paymentNotifier, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{repo: repo, store: store, notifier: notifier, validator: validate, logger: logger}
}

// Create raises a new pending fee.
func (s *PaymentService) Create(ctx context.Context, req CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	payment := &models.Payment{
		StudentID:   req.StudentID,
		Amount:      req.Amount,
		PaymentType: req.PaymentType,
		Status:      models.PaymentStatusPending,
		DueDate:     req.DueDate,
	}
	if req.Description != "" {
		payment.Description = &req.Description
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	return payment, nil
}

// List returns payments matching the filter.
func (s *PaymentService) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	payments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return payments, pagination, nil
}

// Confirm moves a pending payment to paid, stamping the payment date. A
// payment that is not pending yields a conflict.
func (s *PaymentService) Confirm(ctx context.Context, paymentID string) (*models.Payment, error) {
	updated, err := s.repo.MarkPaid(ctx, paymentID, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm payment")
	}
	if !updated {
		if _, err := s.repo.FindByID(ctx, paymentID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
		}
		return nil, appErrors.Clone(appErrors.ErrConflict, "payment is not pending")
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload payment")
	}

	if s.notifier != nil {
		s.notifier.PaymentConfirmed(ctx, payment.StudentID, payment)
	}
	return payment, nil
}

// AttachProof stores an uploaded proof file for the student's own payment.
func (s *PaymentService) AttachProof(ctx context.Context, studentID, paymentID string, upload Upload) (*models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	if payment.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "payment belongs to another student")
	}

	name := path.Join("payments", paymentID+strings.ToLower(path.Ext(upload.Filename)))
	saved, err := s.store.Save(name, upload.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "failed to store payment proof")
	}

	if err := s.repo.AttachProof(ctx, paymentID, saved); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach payment proof")
	}
	payment.PaymentProof = &saved
	return payment, nil
}
