package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/internal/service"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
	"github.com/noah-isme/college-site-api/pkg/response"
)

// multipartOverhead is the slack allowed on top of the file limit for
// boundaries and other form fields.
const multipartOverhead = 1 << 20

type imageUploader interface {
	SaveImage(ctx context.Context, actor *models.JWTClaims, upload service.ImageUpload) (*dto.UploadResponse, error)
	MaxSize() int64
}

// UploadHandler accepts image uploads from the admin editors.
type UploadHandler struct {
	uploads imageUploader
}

// NewUploadHandler constructs an UploadHandler.
func NewUploadHandler(uploads imageUploader) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// Upload godoc
// @Summary Upload an image
// @Tags Admin Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image up to 5 MB"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxSize()+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Clone(appErrors.ErrUpload, "file is too large"))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "failed to read file"))
		return
	}
	defer file.Close()

	res, err := h.uploads.SaveImage(c.Request.Context(), claimsFromContext(c), service.ImageUpload{
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}
