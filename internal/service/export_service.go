package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/braioemmanuel-hub/regi-learn-suite/internal/models"
	appErrors "github.com/braioemmanuel-hub/regi-learn-suite/pkg/errors"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/export"
	"github.com/braioemmanuel-hub/regi-learn-suite/pkg/storage"
)

// ExportFormat enumerates supported export file formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type exportRegistrationSource interface {
	ListPending(ctx context.Context, page, pageSize int) ([]models.PendingRegistration, int, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string       `json:"relative_path"`
	Token        string       `json:"-"`
	URL          string       `json:"url"`
	Format       ExportFormat `json:"format"`
	ExpiresAt    time.Time    `json:"expires_at"`
}

// ExportService renders the pending-registration review queue to CSV or PDF
// and serves the files through expiring signed URLs.
type ExportService struct {
	registrations exportRegistrationSource
	storage       exportStorage
	csv           csvRenderer
	pdf           pdfRenderer
	signer        *storage.SignedURLSigner
	logger        *zap.Logger
	cfg           ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(registrations exportRegistrationSource, store exportStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		registrations: registrations,
		storage:       store,
		csv:           csv,
		pdf:           pdf,
		signer:        signer,
		logger:        logger,
		cfg:           cfg,
	}
}

const exportPageSize = 500

// PendingRegistrations renders every pending registration to the requested
// format and returns a signed download URL.
func (s *ExportService) PendingRegistrations(ctx context.Context, format ExportFormat) (*ExportResult, error) {
	dataset, err := s.buildPendingDataset(ctx)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Pending Registrations")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+string(format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	exportID := uuid.NewString()
	filename := fmt.Sprintf("pending-registrations-%s-%s.%s", time.Now().UTC().Format("20060102-150405"), exportID[:8], format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export url")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/admin/registrations/export/%s", prefix, token),
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// OpenByToken validates a download token and opens the referenced file.
func (s *ExportService) OpenByToken(token string) (*os.File, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, nil
}

// Cleanup removes export files older than the configured TTL.
func (s *ExportService) Cleanup() {
	deleted, err := s.storage.CleanupOlderThan(s.cfg.ResultTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("export cleanup removed files", zap.Int("count", len(deleted)))
	}
}

func (s *ExportService) buildPendingDataset(ctx context.Context) (export.Dataset, error) {
	dataset := export.Dataset{
		Headers: []string{"Matric No", "Full Name", "Email", "Phone", "Proposed Course", "Payment Status", "Submitted"},
	}

	for page := 1; ; page++ {
		pending, total, err := s.registrations.ListPending(ctx, page, exportPageSize)
		if err != nil {
			return export.Dataset{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pending registrations")
		}
		for _, p := range pending {
			row := map[string]string{
				"Matric No":       deref(p.Profile.StudentUniqueID),
				"Full Name":       p.Profile.FullName,
				"Email":           p.Profile.Email,
				"Phone":           deref(p.Profile.PhoneNumber),
				"Proposed Course": deref(p.Profile.ProposedCourse),
				"Submitted":       p.Profile.CreatedAt.Format("2006-01-02 15:04"),
			}
			if p.Payment != nil {
				row["Payment Status"] = string(p.Payment.Status)
			} else {
				row["Payment Status"] = "none"
			}
			dataset.Rows = append(dataset.Rows, row)
		}
		if len(pending) < exportPageSize || page*exportPageSize >= total {
			break
		}
	}
	return dataset, nil
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
