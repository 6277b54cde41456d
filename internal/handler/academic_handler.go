package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// AcademicHandler exposes academic detail endpoints.
type AcademicHandler struct {
	academics *service.AcademicService
}

// NewAcademicHandler constructs AcademicHandler.
func NewAcademicHandler(academics *service.AcademicService) *AcademicHandler {
	return &AcademicHandler{academics: academics}
}

// GetOwn godoc
// @Summary Academic details for the current student
// @Tags Academics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/academics [get]
func (h *AcademicHandler) GetOwn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	details, err := h.academics.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Get godoc
// @Summary Academic details for any student
// @Tags Academics
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/academics [get]
func (h *AcademicHandler) Get(c *gin.Context) {
	details, err := h.academics.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Upsert godoc
// @Summary Create or update a student's academic details
// @Tags Academics
// @Accept json
// @Produce json
// @Param payload body service.AcademicDetailsRequest true "Academic details"
// @Success 200 {object} response.Envelope
// @Router /admin/academics [put]
func (h *AcademicHandler) Upsert(c *gin.Context) {
	var req service.AcademicDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	details, err := h.academics.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// ChangeProgramme godoc
// @Summary Apply for a programme change
// @Tags Academics
// @Accept json
// @Produce json
// @Param payload body service.ChangeProgrammeRequest true "Programme change"
// @Success 200 {object} response.Envelope
// @Router /students/academics/programme [post]
func (h *AcademicHandler) ChangeProgramme(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.ChangeProgrammeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	details, err := h.academics.ChangeProgramme(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}
