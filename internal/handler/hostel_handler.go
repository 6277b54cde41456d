package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// HostelHandler exposes hostel allocation endpoints.
type HostelHandler struct {
	hostels *service.HostelService
}

// NewHostelHandler constructs HostelHandler.
func NewHostelHandler(hostels *service.HostelService) *HostelHandler {
	return &HostelHandler{hostels: hostels}
}

// GetOwn godoc
// @Summary Hostel allocation for the current student
// @Tags Hostel
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/hostel [get]
func (h *HostelHandler) GetOwn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	allocation, err := h.hostels.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocation, nil)
}

// Allocate godoc
// @Summary Allocate or move a student to a room
// @Tags Hostel
// @Accept json
// @Produce json
// @Param payload body service.AllocateHostelRequest true "Allocation payload"
// @Success 200 {object} response.Envelope
// @Router /admin/hostel [put]
func (h *HostelHandler) Allocate(c *gin.Context) {
	var req service.AllocateHostelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	allocation, err := h.hostels.Allocate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, allocation, nil)
}

// Vacate godoc
// @Summary Remove a student's hostel allocation
// @Tags Hostel
// @Produce json
// @Param id path string true "Student ID"
// @Success 204 {object} response.Envelope
// @Router /admin/hostel/{id} [delete]
func (h *HostelHandler) Vacate(c *gin.Context) {
	if err := h.hostels.Vacate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
