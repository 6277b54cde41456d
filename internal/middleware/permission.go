package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// RequireMenu restricts an admin route to admins granted the given menu
// section. Super admins pass unconditionally.
func RequireMenu(identities *service.IdentityService, item models.MenuItem) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		identity, err := identities.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if !identity.HasMenu(item) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "section not granted"))
			c.Abort()
			return
		}
		c.Next()
	}
}
