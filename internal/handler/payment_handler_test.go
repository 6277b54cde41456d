package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/middleware"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
)

type stubPaymentRepo struct {
	created []*models.Payment
}

func (s *stubPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = "pay-1"
	s.created = append(s.created, payment)
	return nil
}

func (s *stubPaymentRepo) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	return nil, sql.ErrNoRows
}

func (s *stubPaymentRepo) List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, int, error) {
	return nil, 0, nil
}

func (s *stubPaymentRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (bool, error) {
	return false, sql.ErrNoRows
}

func (s *stubPaymentRepo) AttachProof(ctx context.Context, id, proofURL string) error {
	return nil
}

func TestPaymentCreateOwnScopesToCurrentStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubPaymentRepo{}
	h := NewPaymentHandler(service.NewPaymentService(repo, &stubFileStore{}, nil, nil, nil))

	body, err := json.Marshal(map[string]interface{}{
		"student_id":   "someone-else",
		"amount":       5000,
		"payment_type": "Hostel Fee",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/students/payments", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})

	h.CreateOwn(c)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, repo.created, 1)
	assert.Equal(t, "user-1", repo.created[0].StudentID)
	assert.Equal(t, models.PaymentStatusPending, repo.created[0].Status)
}

func TestPaymentCreateOwnRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubPaymentRepo{}
	h := NewPaymentHandler(service.NewPaymentService(repo, &stubFileStore{}, nil, nil, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/students/payments", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CreateOwn(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, repo.created)
}
