package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
	"github.com/noah-isme/college-site-api/pkg/export"
)

type directorySource interface {
	ListDirectory(ctx context.Context) ([]models.TeacherWithFaculty, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportFile is a rendered document ready to be streamed.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders the teacher directory as CSV or PDF.
type ExportService struct {
	teachers  directorySource
	renderers map[string]datasetRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(teachers directorySource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		teachers: teachers,
		renderers: map[string]datasetRenderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

var directoryHeaders = []string{"Full name", "Position", "Faculty", "Photo"}

// TeacherDirectory renders every teacher by name in the requested format.
func (s *ExportService) TeacherDirectory(ctx context.Context, actor *models.JWTClaims, format string) (*ExportFile, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Validation("format must be csv or pdf")
	}

	teachers, err := s.teachers.ListDirectory(ctx)
	if err != nil {
		return nil, persistenceError(err, "failed to list teachers")
	}

	dataset := export.Dataset{Title: "Teaching staff", Headers: directoryHeaders}
	for _, t := range teachers {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Full name": t.FullName,
			"Position":  deref(t.Position),
			"Faculty":   deref(t.FacultyName),
			"Photo":     deref(t.PhotoURL),
		})
	}

	data, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("teacher directory exported", zap.String("format", format), zap.Int("rows", len(teachers)))

	return &ExportFile{
		Filename:    fmt.Sprintf("teachers-%s.%s", s.now().UTC().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
