package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type dashboardProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	CountByApproval(ctx context.Context, approved bool) (int, error)
}

type dashboardPaymentRepository interface {
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error)
	SumByStatus(ctx context.Context, status models.PaymentStatus) (float64, error)
}

type dashboardNotificationRepository interface {
	CountUnread(ctx context.Context, userID string) (int, error)
}

// StudentDashboard is the student landing payload.
type StudentDashboard struct {
	Profile             *models.Profile  `json:"profile"`
	PendingPayments     []models.Payment `json:"pending_payments"`
	UnreadNotifications int              `json:"unread_notifications"`
}

// AdminDashboard is the admin landing payload.
type AdminDashboard struct {
	PendingRegistrations int                  `json:"pending_registrations"`
	ApprovedStudents     int                  `json:"approved_students"`
	PendingFeesTotal     float64              `json:"pending_fees_total"`
	CollectedFeesTotal   float64              `json:"collected_fees_total"`
	System               models.SystemMetrics `json:"system"`
}

// DashboardService composes landing page summaries.
type DashboardService struct {
	profiles      dashboardProfileRepository
	payments      dashboardPaymentRepository
	notifications dashboardNotificationRepository
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(profiles dashboardProfileRepository, payments dashboardPaymentRepository, notifications dashboardNotificationRepository, metrics *MetricsService, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{profiles: profiles, payments: payments, notifications: notifications, metrics: metrics, logger: logger}
}

// ForStudent builds the student landing payload.
func (s *DashboardService) ForStudent(ctx context.Context, studentID string) (*StudentDashboard, error) {
	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	pending, _, err := s.payments.List(ctx, models.PaymentFilter{
		StudentID: studentID,
		Status:    models.PaymentStatusPending,
		Page:      1,
		PageSize:  10,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending payments")
	}

	unread, err := s.notifications.CountUnread(ctx, studentID)
	if err != nil {
		s.logger.Warn("failed to count unread notifications", zap.String("user_id", studentID), zap.Error(err))
		unread = 0
	}

	return &StudentDashboard{Profile: profile, PendingPayments: pending, UnreadNotifications: unread}, nil
}

// ForAdmin builds the admin landing payload.
func (s *DashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	pendingCount, err := s.profiles.CountByApproval(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending registrations")
	}
	approvedCount, err := s.profiles.CountByApproval(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	pendingTotal, err := s.payments.SumByStatus(ctx, models.PaymentStatusPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total pending fees")
	}
	collectedTotal, err := s.payments.SumByStatus(ctx, models.PaymentStatusPaid)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to total collected fees")
	}

	dashboard := &AdminDashboard{
		PendingRegistrations: pendingCount,
		ApprovedStudents:     approvedCount,
		PendingFeesTotal:     pendingTotal,
		CollectedFeesTotal:   collectedTotal,
	}
	if s.metrics != nil {
		dashboard.System = s.metrics.Snapshot()
	}
	return dashboard, nil
}
