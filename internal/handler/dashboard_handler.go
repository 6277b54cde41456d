package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// DashboardHandler serves summary dashboards.
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// Student godoc
// @Summary Dashboard for the current student
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/dashboard [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.dashboards.ForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// Admin godoc
// @Summary Back-office dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	dashboard, err := h.dashboards.ForAdmin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}
