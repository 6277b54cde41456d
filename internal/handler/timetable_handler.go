package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// TimetableHandler exposes the lecture schedule.
type TimetableHandler struct {
	timetables *service.TimetableService
}

// NewTimetableHandler constructs TimetableHandler.
func NewTimetableHandler(timetables *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetables: timetables}
}

// List godoc
// @Summary List timetable entries for a semester
// @Tags Timetable
// @Produce json
// @Param semester query int true "Semester"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}

	entries, err := h.timetables.List(c.Request.Context(), semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Create a timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.TimetableEntryRequest true "Timetable entry"
// @Success 201 {object} response.Envelope
// @Router /admin/timetable [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	var req service.TimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	entry, err := h.timetables.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a timetable entry
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.TimetableEntryRequest true "Timetable entry"
// @Success 200 {object} response.Envelope
// @Router /admin/timetable/{id} [put]
func (h *TimetableHandler) Update(c *gin.Context) {
	var req service.TimetableEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	entry, err := h.timetables.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a timetable entry
// @Tags Timetable
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204 {object} response.Envelope
// @Router /admin/timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.timetables.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
