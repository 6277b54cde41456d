package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/jobs"
)

const notificationFeedLimit = 50

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationPublisher interface {
	Publish(ctx context.Context, userID string, payload []byte) error
	Subscribe(ctx context.Context, userID string) (<-chan string, func(), error)
}

type adminDirectory interface {
	ListByRole(ctx context.Context, role models.UserRole) ([]string, error)
}

type notificationJob struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NotificationService persists notifications and streams them live. Writes
// go through a background queue so request paths never block on fan-out,
// and each stored notification is published over Redis for SSE delivery.
type NotificationService struct {
	repo      notificationRepository
	publisher notificationPublisher
	admins    adminDirectory
	queue     *jobs.Queue
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService. Start must be
// called before notifications are dispatched.
func NewNotificationService(repo notificationRepository, publisher notificationPublisher, admins adminDirectory, logger *zap.Logger, queueCfg jobs.QueueConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{repo: repo, publisher: publisher, admins: admins, logger: logger}
	queueCfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.handleJob, queueCfg)
	return s
}

// Start launches the dispatch workers.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the dispatch workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Feed returns the user's recent notifications and unread count.
func (s *NotificationService) Feed(ctx context.Context, userID string) ([]models.Notification, int, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, notificationFeedLimit)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count unread notifications")
	}
	return notifications, unread, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.repo.MarkRead(ctx, notificationID, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead flags all the user's notifications as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}

// Stream opens a live payload stream of the user's notifications.
func (s *NotificationService) Stream(ctx context.Context, userID string) (<-chan string, func(), error) {
	stream, closeFn, err := s.publisher.Subscribe(ctx, userID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open notification stream")
	}
	return stream, closeFn, nil
}

// RegistrationSubmitted tells every admin a new registration awaits review.
func (s *NotificationService) RegistrationSubmitted(ctx context.Context, studentID, fullName string) {
	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleSuperAdmin} {
		adminIDs, err := s.admins.ListByRole(ctx, role)
		if err != nil {
			s.logger.Warn("failed to list admins for notification", zap.Error(err))
			continue
		}
		for _, adminID := range adminIDs {
			s.dispatch(notificationJob{
				UserID:  adminID,
				Title:   "New registration",
				Message: fullName + " submitted a registration for review",
				Type:    "registration",
			})
		}
	}
}

// RegistrationApproved tells the student their registration was approved.
func (s *NotificationService) RegistrationApproved(ctx context.Context, studentID string) {
	s.dispatch(notificationJob{
		UserID:  studentID,
		Title:   "Registration approved",
		Message: "Your registration has been approved. Welcome aboard!",
		Type:    "registration",
	})
}

// PaymentConfirmed tells the student a payment was confirmed.
func (s *NotificationService) PaymentConfirmed(ctx context.Context, studentID string, payment *models.Payment) {
	s.dispatch(notificationJob{
		UserID:  studentID,
		Title:   "Payment confirmed",
		Message: payment.PaymentType + " payment has been confirmed",
		Type:    "payment",
	})
}

// DocumentIssued tells the student a new document is available.
func (s *NotificationService) DocumentIssued(ctx context.Context, studentID, documentName string) {
	s.dispatch(notificationJob{
		UserID:  studentID,
		Title:   "New document",
		Message: documentName + " has been added to your documents",
		Type:    "document",
	})
}

func (s *NotificationService) dispatch(payload notificationJob) {
	job := jobs.Job{ID: uuid.NewString(), Type: payload.Type, Payload: payload}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("user_id", payload.UserID), zap.Error(err))
	}
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationJob)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}

	notification := &models.Notification{
		UserID:  payload.UserID,
		Title:   payload.Title,
		Message: payload.Message,
		Type:    payload.Type,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	raw, err := json.Marshal(notification)
	if err != nil {
		s.logger.Warn("failed to encode notification for streaming", zap.Error(err))
		return nil
	}
	if err := s.publisher.Publish(ctx, payload.UserID, raw); err != nil {
		s.logger.Warn("failed to publish notification", zap.String("user_id", payload.UserID), zap.Error(err))
	}
	return nil
}
