package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/middleware"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      map[string]interface{} `json:"error"`
	Pagination map[string]interface{} `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

type stubIdentityResolver struct {
	identity service.Identity
}

func (s *stubIdentityResolver) Resolve(ctx context.Context, userID string) (service.Identity, error) {
	return s.identity, nil
}

func TestNavigationMenuRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewNavigationHandler(service.NewNavigationService(&stubIdentityResolver{}, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/menu", nil)

	h.Menu(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNavigationMenuStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := &stubIdentityResolver{identity: service.Identity{UserID: "u1", Role: models.RoleStudent}}
	h := NewNavigationHandler(service.NewNavigationService(resolver, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/menu", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})

	h.Menu(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	var sections []models.Section
	require.NoError(t, json.Unmarshal(envelope.Data, &sections))
	require.Len(t, sections, len(models.StudentSections)+1)
	assert.Equal(t, models.LogoutSection.ID, sections[len(sections)-1].ID)
}
