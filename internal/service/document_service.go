package service

import (
	"context"
	"database/sql"
	"errors"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
)

type documentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	FindByID(ctx context.Context, id string) (*models.Document, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Document, error)
	Delete(ctx context.Context, id string) error
}

type documentNotifier interface {
	DocumentIssued(ctx context.Context, studentID, documentName string)
}

// IssueDocumentRequest uploads an admin document for one student.
type IssueDocumentRequest struct {
	StudentID    string `json:"student_id" validate:"required"`
	DocumentName string `json:"document_name" validate:"required"`
	DocumentType string `json:"document_type" validate:"required"`
	File         Upload `json:"-"`
}

// DocumentService manages admin-issued documents.
type DocumentService struct {
	repo      documentRepository
	store     fileStore
	notifier  documentNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(repo documentRepository, store fileStore, notifier documentNotifier, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{repo: repo, store: store, notifier: notifier, validator: validate, logger: logger}
}

// Issue stores the file and records the document against the student.
func (s *DocumentService) Issue(ctx context.Context, req IssueDocumentRequest) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document payload")
	}
	if len(req.File.Content) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "document file is required")
	}

	name := path.Join("documents", uuid.NewString()+strings.ToLower(path.Ext(req.File.Filename)))
	saved, err := s.store.Save(name, req.File.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "failed to store document")
	}

	doc := &models.Document{
		StudentID:    req.StudentID,
		DocumentName: req.DocumentName,
		DocumentType: req.DocumentType,
		DocumentURL:  saved,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if delErr := s.store.Delete(saved); delErr != nil {
			s.logger.Warn("failed to remove orphaned document file", zap.String("file", saved), zap.Error(delErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record document")
	}

	if s.notifier != nil {
		s.notifier.DocumentIssued(ctx, req.StudentID, req.DocumentName)
	}
	return doc, nil
}

// ListForStudent returns a student's documents.
func (s *DocumentService) ListForStudent(ctx context.Context, studentID string) ([]models.Document, error) {
	docs, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list documents")
	}
	return docs, nil
}

// Delete removes a document record and its stored file.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load document")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document")
	}

	if err := s.store.Delete(doc.DocumentURL); err != nil {
		s.logger.Warn("failed to remove document file", zap.String("file", doc.DocumentURL), zap.Error(err))
	}
	return nil
}
