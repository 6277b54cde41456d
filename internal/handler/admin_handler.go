package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// AdminHandler manages scoped admin accounts. Super admin only.
type AdminHandler struct {
	admins *service.AdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admins *service.AdminService) *AdminHandler {
	return &AdminHandler{admins: admins}
}

// Create godoc
// @Summary Create a scoped admin account
// @Tags Admins
// @Accept json
// @Produce json
// @Param payload body service.CreateAdminRequest true "Admin payload"
// @Success 201 {object} response.Envelope
// @Router /admin/admins [post]
func (h *AdminHandler) Create(c *gin.Context) {
	var req service.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	account, err := h.admins.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// List godoc
// @Summary List admin accounts with their grants
// @Tags Admins
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/admins [get]
func (h *AdminHandler) List(c *gin.Context) {
	accounts, err := h.admins.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accounts, nil)
}

// UpdatePermissions godoc
// @Summary Replace an admin's menu grants
// @Tags Admins
// @Accept json
// @Produce json
// @Param id path string true "Admin user ID"
// @Param payload body service.UpdateAdminPermissionsRequest true "Grants"
// @Success 204 {object} response.Envelope
// @Router /admin/admins/{id}/permissions [put]
func (h *AdminHandler) UpdatePermissions(c *gin.Context) {
	var req service.UpdateAdminPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.admins.UpdatePermissions(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete an admin account
// @Tags Admins
// @Produce json
// @Param id path string true "Admin user ID"
// @Success 204 {object} response.Envelope
// @Router /admin/admins/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.admins.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
