package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

func rbacEngine(claims *models.JWTClaims, guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected/:id", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	}, guard, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	r := rbacEngine(nil, RequireRoles(models.RoleAdmin))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected/x", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRolesRejectsWrongRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}
	r := rbacEngine(claims, RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected/x", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesAllowsMatchingRole(t *testing.T) {
	claims := &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}
	r := rbacEngine(claims, RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected/x", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRBACSelfAccess(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleStudent}
	r := rbacEngine(claims, RBAC("SELF", string(models.RoleAdmin)))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected/u1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected/u2", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
