package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type fakePaymentRepo struct {
	payments map[string]*models.Payment
	proofs   map[string]string
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = "p-new"
	}
	if f.payments == nil {
		f.payments = make(map[string]*models.Payment)
	}
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	if p, ok := f.payments[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakePaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if filter.StudentID != "" && p.StudentID != filter.StudentID {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (f *fakePaymentRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	p, ok := f.payments[id]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = models.PaymentStatusPaid
	p.PaidDate = &paidAt
	return true, nil
}

func (f *fakePaymentRepo) AttachProof(ctx context.Context, id, proofURL string) error {
	if f.proofs == nil {
		f.proofs = make(map[string]string)
	}
	f.proofs[id] = proofURL
	return nil
}

type recordingPaymentNotifier struct {
	confirmed []string
}

func (r *recordingPaymentNotifier) PaymentConfirmed(ctx context.Context, studentID string, payment *models.Payment) {
	r.confirmed = append(r.confirmed, payment.ID)
}

func TestPaymentConfirmStampsPaidDate(t *testing.T) {
	repo := &fakePaymentRepo{payments: map[string]*models.Payment{
		"p1": {ID: "p1", StudentID: "s1", Status: models.PaymentStatusPending},
	}}
	notifier := &recordingPaymentNotifier{}
	svc := NewPaymentService(repo, &fakeFileStore{}, notifier, nil, nil)

	payment, err := svc.Confirm(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, payment.Status)
	require.NotNil(t, payment.PaidDate)
	assert.Equal(t, []string{"p1"}, notifier.confirmed)
}

func TestPaymentConfirmAlreadyPaidConflicts(t *testing.T) {
	repo := &fakePaymentRepo{payments: map[string]*models.Payment{
		"p1": {ID: "p1", Status: models.PaymentStatusPaid},
	}}
	svc := NewPaymentService(repo, &fakeFileStore{}, nil, nil, nil)

	_, err := svc.Confirm(context.Background(), "p1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestPaymentConfirmUnknownPayment(t *testing.T) {
	svc := NewPaymentService(&fakePaymentRepo{}, &fakeFileStore{}, nil, nil, nil)

	_, err := svc.Confirm(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPaymentAttachProofScopedToOwner(t *testing.T) {
	repo := &fakePaymentRepo{payments: map[string]*models.Payment{
		"p1": {ID: "p1", StudentID: "s1", Status: models.PaymentStatusPending},
	}}
	store := &fakeFileStore{}
	svc := NewPaymentService(repo, store, nil, nil, nil)

	_, err := svc.AttachProof(context.Background(), "s2", "p1", Upload{Filename: "proof.png", Content: []byte("x")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	payment, err := svc.AttachProof(context.Background(), "s1", "p1", Upload{Filename: "proof.png", Content: []byte("x")})
	require.NoError(t, err)
	require.NotNil(t, payment.PaymentProof)
	assert.Equal(t, "payments/p1.png", *payment.PaymentProof)
	assert.Contains(t, store.saved, "payments/p1.png")
}
