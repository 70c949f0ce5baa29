package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

const defaultMaxUploadSize = 5 * 1024 * 1024

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

type uploadStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// ImageUpload is one file received from a multipart form.
type ImageUpload struct {
	Filename    string
	Size        int64
	ContentType string
	Content     io.Reader
}

// UploadService validates and stores images referenced by content items.
type UploadService struct {
	storage uploadStorage
	maxSize int64
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewUploadService constructs an UploadService. maxSize <= 0 means 5 MB.
func NewUploadService(storage uploadStorage, maxSize int64, metrics *MetricsService, logger *zap.Logger) *UploadService {
	if maxSize <= 0 {
		maxSize = defaultMaxUploadSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{storage: storage, maxSize: maxSize, metrics: metrics, logger: logger, now: time.Now}
}

// MaxSize is the largest accepted file in bytes.
func (s *UploadService) MaxSize() int64 {
	return s.maxSize
}

// SaveImage checks that upload is a decodable image within the size limit and
// stores it under a timestamped name. It returns the public URL.
func (s *UploadService) SaveImage(ctx context.Context, actor *models.JWTClaims, upload ImageUpload) (*dto.UploadResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	resp, err := s.saveImage(upload)
	if err != nil {
		s.metrics.RecordUpload("rejected")
		return nil, err
	}
	s.metrics.RecordUpload("stored")
	s.logger.Info("image uploaded", zap.String("url", resp.URL), zap.Int64("size", upload.Size), zap.String("user_id", actor.UserID))
	return resp, nil
}

func (s *UploadService) saveImage(upload ImageUpload) (*dto.UploadResponse, error) {
	if upload.Content == nil {
		return nil, uploadError("file is required")
	}
	if !strings.HasPrefix(strings.ToLower(upload.ContentType), "image/") {
		return nil, uploadError("file must be an image")
	}
	if upload.Size > s.maxSize {
		return nil, uploadError(fmt.Sprintf("file must not exceed %d MB", s.maxSize/(1024*1024)))
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, s.maxSize+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "failed to read file")
	}
	if int64(len(data)) > s.maxSize {
		return nil, uploadError(fmt.Sprintf("file must not exceed %d MB", s.maxSize/(1024*1024)))
	}
	if len(data) == 0 {
		return nil, uploadError("file is empty")
	}
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") {
		return nil, uploadError("file content is not an image")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "image could not be decoded")
	}

	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), SanitizeFilename(upload.Filename))
	url, err := s.storage.SaveStream(name, bytes.NewReader(data))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, http.StatusInternalServerError, "failed to store file")
	}
	return &dto.UploadResponse{URL: url}, nil
}

// SanitizeFilename keeps the base name and replaces anything outside
// letters, digits, dots and hyphens with an underscore.
func SanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		base = "image"
	}
	return unsafeFilenameChars.ReplaceAllString(base, "_")
}

func uploadError(message string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrUpload, message)
}
