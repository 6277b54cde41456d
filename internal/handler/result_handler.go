package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// ResultHandler exposes result entry and result sheets.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler constructs ResultHandler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Enter godoc
// @Summary Enter or overwrite a score
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body service.EnterResultRequest true "Result payload"
// @Success 200 {object} response.Envelope
// @Router /admin/results [post]
func (h *ResultHandler) Enter(c *gin.Context) {
	var req service.EnterResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.results.Enter(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Sheet godoc
// @Summary Result sheet with GPA for the current student
// @Tags Results
// @Produce json
// @Param semester query int false "Filter by semester"
// @Param session query string false "Filter by session"
// @Success 200 {object} response.Envelope
// @Router /students/results [get]
func (h *ResultHandler) Sheet(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := resultFilterFromQuery(c)
	filter.StudentID = claims.UserID

	sheet, err := h.results.Sheet(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// SheetForStudent godoc
// @Summary Result sheet for any student
// @Tags Results
// @Produce json
// @Param id path string true "Student ID"
// @Param semester query int false "Filter by semester"
// @Param session query string false "Filter by session"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/results [get]
func (h *ResultHandler) SheetForStudent(c *gin.Context) {
	filter := resultFilterFromQuery(c)
	filter.StudentID = c.Param("id")

	sheet, err := h.results.Sheet(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

func resultFilterFromQuery(c *gin.Context) models.ResultFilter {
	var filter models.ResultFilter
	if semester, err := strconv.Atoi(c.Query("semester")); err == nil {
		filter.Semester = semester
	}
	filter.Session = c.Query("session")
	return filter
}
