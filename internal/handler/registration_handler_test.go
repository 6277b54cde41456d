package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"mime/multipart"
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

type stubUserRepo struct {
	created []*models.User
	deleted []string
}

func (s *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User, role models.UserRole) error {
	if user.ID == "" {
		user.ID = "user-1"
	}
	s.created = append(s.created, user)
	return nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubProfileRepo struct {
	profiles map[string]*models.Profile
}

func (s *stubProfileRepo) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubProfileRepo) ExistsByStudentUniqueID(ctx context.Context, uniqueID string) (bool, error) {
	return false, nil
}

func (s *stubProfileRepo) Approve(ctx context.Context, studentID, approvedBy string, approvedAt time.Time) (bool, error) {
	p := s.profiles[studentID]
	if p.RegistrationApproved {
		return true, nil
	}
	p.RegistrationApproved = true
	p.ApprovedBy = &approvedBy
	p.ApprovedAt = &approvedAt
	return false, nil
}

func (s *stubProfileRepo) DeleteCascade(ctx context.Context, studentID string) error {
	delete(s.profiles, studentID)
	return nil
}

type stubRegistrationRepo struct {
	submitted int
}

func (s *stubRegistrationRepo) Submit(ctx context.Context, profile *models.Profile, docs *models.RegistrationDocuments, payment *models.Payment) error {
	s.submitted++
	return nil
}

func (s *stubRegistrationRepo) FindDocuments(ctx context.Context, studentID string) (*models.RegistrationDocuments, error) {
	return nil, sql.ErrNoRows
}

func (s *stubRegistrationRepo) ListPending(ctx context.Context, page, pageSize int) ([]models.PendingRegistration, int, error) {
	return nil, 0, nil
}

type stubFileStore struct {
	saved map[string][]byte
}

func (s *stubFileStore) Save(filename string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[filename] = data
	return filename, nil
}

func (s *stubFileStore) Delete(filename string) error { return nil }

type stubIDGen struct{}

func (stubIDGen) Next() string { return "STU-2026-000007" }

type noopNotifier struct{}

func (noopNotifier) RegistrationSubmitted(ctx context.Context, studentID, fullName string) {}
func (noopNotifier) RegistrationApproved(ctx context.Context, studentID string)           {}

func newTestRegistrationHandler(profiles *stubProfileRepo) (*RegistrationHandler, *stubUserRepo, *stubRegistrationRepo) {
	users := &stubUserRepo{}
	regs := &stubRegistrationRepo{}
	svc := service.NewRegistrationService(users, profiles, regs, &stubFileStore{}, stubIDGen{}, noopNotifier{}, nil, nil, service.RegistrationConfig{
		FeeAmount:       10000,
		MaxFileSize:     1 << 20,
		PendingPageSize: 20,
	})
	return NewRegistrationHandler(svc, nil), users, regs
}

func multipartSubmission(t *testing.T, fields map[string]string, files []string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	for _, name := range files {
		part, err := writer.CreateFormFile(name, name+".pdf")
		require.NoError(t, err)
		_, err = part.Write([]byte("content"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func submissionFields() map[string]string {
	return map[string]string{
		"email":                    "ada@example.com",
		"password":                 "secret123",
		"surname":                  "Obi",
		"first_name":               "Ada",
		"gender":                   "female",
		"date_of_birth":            "2004-03-12",
		"address":                  "12 Marina Road",
		"country":                  "Nigeria",
		"state_of_origin":          "Anambra",
		"phone_number":             "08030000000",
		"next_of_kin_name":         "Ngozi Obi",
		"next_of_kin_phone":        "08031111111",
		"proposed_course":          "Computer Science",
		"next_of_kin_relationship": "mother",
	}
}

func TestRegistrationSubmitHTTPHappyPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, users, regs := newTestRegistrationHandler(&stubProfileRepo{profiles: map[string]*models.Profile{}})

	body, contentType := multipartSubmission(t, submissionFields(), []string{
		"ssce_result", "birth_certificate", "state_of_origin_cert", "passport_photo", "payment_proof",
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/registrations", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Submit(c)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, users.created, 1)
	assert.Equal(t, 1, regs.submitted)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var payload map[string]string
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	assert.Equal(t, "STU-2026-000007", payload["student_unique_id"])
	assert.Equal(t, "pending", payload["status"])
}

func TestRegistrationSubmitHTTPMissingFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h, users, _ := newTestRegistrationHandler(&stubProfileRepo{profiles: map[string]*models.Profile{}})

	body, contentType := multipartSubmission(t, submissionFields(), []string{"ssce_result"})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/registrations", body)
	c.Request.Header.Set("Content-Type", contentType)

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, users.created)
	assert.Contains(t, rec.Body.String(), "birth_certificate")
}

func TestRegistrationStatusReturnsApprovalState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	uniqueID := "STU-2026-000007"
	profiles := &stubProfileRepo{profiles: map[string]*models.Profile{
		"user-1": {ID: "user-1", StudentUniqueID: &uniqueID, RegistrationApproved: true},
	}}
	h, _, _ := newTestRegistrationHandler(profiles)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/registrations/status", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleStudent})

	h.Status(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	var status service.RegistrationStatus
	require.NoError(t, json.Unmarshal(envelope.Data, &status))
	assert.True(t, status.Approved)
	require.NotNil(t, status.StudentUniqueID)
	assert.Equal(t, uniqueID, *status.StudentUniqueID)
}

func TestRegistrationApproveStampsAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	profiles := &stubProfileRepo{profiles: map[string]*models.Profile{
		"s1": {ID: "s1"},
	}}
	h, _, _ := newTestRegistrationHandler(profiles)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/registrations/s1/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	h.Approve(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, profiles.profiles["s1"].RegistrationApproved)
	require.NotNil(t, profiles.profiles["s1"].ApprovedBy)
	assert.Equal(t, "admin-1", *profiles.profiles["s1"].ApprovedBy)
}
