package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// RequireApproved blocks students whose registration has not been approved.
// Admin roles pass through so shared routes keep working.
func RequireApproved(registrations *service.RegistrationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims := claimsValue.(*models.JWTClaims)

		if claims.Role != models.RoleStudent {
			c.Next()
			return
		}

		status, err := registrations.Status(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if !status.Approved {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "registration pending approval"))
			c.Abort()
			return
		}
		c.Next()
	}
}
