package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// NavigationHandler serves the role-scoped portal menu.
type NavigationHandler struct {
	navigation *service.NavigationService
}

// NewNavigationHandler constructs NavigationHandler.
func NewNavigationHandler(navigation *service.NavigationService) *NavigationHandler {
	return &NavigationHandler{navigation: navigation}
}

// Menu godoc
// @Summary Portal menu for the current user
// @Tags Navigation
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /menu [get]
func (h *NavigationHandler) Menu(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	sections, err := h.navigation.Menu(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}
