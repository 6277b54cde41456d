package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/middleware"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
)

// claimsFromContext pulls the authenticated claims set by the JWT
// middleware, nil when the route was reached unauthenticated.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	if claims, ok := value.(*models.JWTClaims); ok {
		return claims
	}
	return nil
}
