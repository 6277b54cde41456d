package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// RegistrationHandler exposes the registration lifecycle: public submission,
// the student's own status view and the admin review queue.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	exports       *service.ExportService
}

// NewRegistrationHandler constructs RegistrationHandler.
func NewRegistrationHandler(registrations *service.RegistrationService, exports *service.ExportService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, exports: exports}
}

// Submit godoc
// @Summary Submit a prospective-student registration
// @Tags Registration
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Submit(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart form"))
		return
	}

	field := func(name string) string {
		if values := form.Value[name]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	req := service.SubmitRegistrationRequest{
		Email:             field("email"),
		Password:          field("password"),
		Surname:           field("surname"),
		FirstName:         field("first_name"),
		LastName:          field("last_name"),
		Gender:            field("gender"),
		MaritalStatus:     field("marital_status"),
		DateOfBirth:       field("date_of_birth"),
		Address:           field("address"),
		Country:           field("country"),
		StateOfOrigin:     field("state_of_origin"),
		LGA:               field("lga"),
		PhoneNumber:       field("phone_number"),
		Religion:          field("religion"),
		NextOfKinName:     field("next_of_kin_name"),
		NextOfKinPhone:    field("next_of_kin_phone"),
		NextOfKinAddress:  field("next_of_kin_address"),
		NextOfKinRelation: field("next_of_kin_relationship"),
		NextOfKinEmail:    field("next_of_kin_email"),
		ProposedCourse:    field("proposed_course"),
	}

	uploads := map[string]**service.Upload{
		"ssce_result":          &req.SSCEResult,
		"birth_certificate":    &req.BirthCertificate,
		"state_of_origin_cert": &req.StateOfOriginCert,
		"passport_photo":       &req.PassportPhoto,
		"payment_proof":        &req.PaymentProof,
	}
	for name, target := range uploads {
		upload, err := readUpload(form, name)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read uploaded file "+name))
			return
		}
		*target = upload
	}

	res, err := h.registrations.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Status godoc
// @Summary Registration status for the current student
// @Tags Registration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /registrations/status [get]
func (h *RegistrationHandler) Status(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status, err := h.registrations.Status(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// ListPending godoc
// @Summary List registrations awaiting review
// @Tags Registration
// @Produce json
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/pending [get]
func (h *RegistrationHandler) ListPending(c *gin.Context) {
	page := 1
	if parsed, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		page = parsed
	}

	pending, pagination, err := h.registrations.ListPending(c.Request.Context(), page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending, pagination)
}

// Approve godoc
// @Summary Approve a registration
// @Tags Registration
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/{id}/approve [post]
func (h *RegistrationHandler) Approve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.registrations.Approve(c.Request.Context(), c.Param("id"), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Reject godoc
// @Summary Reject a pending registration and delete its data
// @Tags Registration
// @Produce json
// @Param id path string true "Student ID"
// @Success 204 {object} response.Envelope
// @Router /admin/registrations/{id} [delete]
func (h *RegistrationHandler) Reject(c *gin.Context) {
	if err := h.registrations.Reject(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export pending registrations as CSV or PDF
// @Tags Registration
// @Produce json
// @Param format query string false "csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/export [post]
func (h *RegistrationHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.exports.PendingRegistrations(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download an export by signed token
// @Tags Registration
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} file
// @Router /admin/registrations/export/{token} [get]
func (h *RegistrationHandler) Download(c *gin.Context) {
	file, err := h.exports.OpenByToken(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	name := filepath.Base(file.Name())
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	c.Header("Content-Type", "application/octet-stream")
	if _, err := io.Copy(c.Writer, file); err != nil {
		c.Abort()
	}
}

func readUpload(form *multipart.Form, name string) (*service.Upload, error) {
	files := form.File[name]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.Upload{Filename: header.Filename, Size: header.Size, Content: content}, nil
}
