package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// EnrollmentHandler exposes course registration for the current student.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll godoc
// @Summary Replace the student's course selection for a period
// @Tags Enrollment
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Course selection"
// @Success 200 {object} response.Envelope
// @Router /students/courses [put]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	enrolled, err := h.enrollments.Enroll(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrolled, nil)
}

// List godoc
// @Summary List the student's enrolled courses for a period
// @Tags Enrollment
// @Produce json
// @Param semester query int true "Semester"
// @Param session query string true "Academic session"
// @Success 200 {object} response.Envelope
// @Router /students/courses [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	semester, err := strconv.Atoi(c.Query("semester"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semester is required"))
		return
	}
	session := c.Query("session")
	if session == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session is required"))
		return
	}

	enrolled, err := h.enrollments.List(c.Request.Context(), claims.UserID, semester, session)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrolled, nil)
}
