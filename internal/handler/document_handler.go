package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/service"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/response"
)

// DocumentHandler exposes admin-issued document endpoints.
type DocumentHandler struct {
	documents *service.DocumentService
}

// NewDocumentHandler constructs DocumentHandler.
func NewDocumentHandler(documents *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Issue godoc
// @Summary Issue a document to a student
// @Tags Documents
// @Accept mpfd
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /admin/documents [post]
func (h *DocumentHandler) Issue(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "document file required"))
		return
	}
	f, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read document file"))
		return
	}
	defer f.Close() //nolint:errcheck

	content, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "could not read document file"))
		return
	}

	req := service.IssueDocumentRequest{
		StudentID:    c.PostForm("student_id"),
		DocumentName: c.PostForm("document_name"),
		DocumentType: c.PostForm("document_type"),
		File:         service.Upload{Filename: header.Filename, Size: header.Size, Content: content},
	}

	document, err := h.documents.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, document)
}

// ListOwn godoc
// @Summary Documents issued to the current student
// @Tags Documents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/documents [get]
func (h *DocumentHandler) ListOwn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	documents, err := h.documents.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, documents, nil)
}

// ListForStudent godoc
// @Summary Documents issued to any student
// @Tags Documents
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /admin/students/{id}/documents [get]
func (h *DocumentHandler) ListForStudent(c *gin.Context) {
	documents, err := h.documents.ListForStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, documents, nil)
}

// Delete godoc
// @Summary Delete an issued document
// @Tags Documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 204 {object} response.Envelope
// @Router /admin/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
