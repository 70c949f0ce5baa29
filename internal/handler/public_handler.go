package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/pkg/response"
)

type publicNews interface {
	ListPublished(ctx context.Context) ([]models.NewsSummary, error)
	GetPublished(ctx context.Context, slug string) (*models.NewsDetail, error)
}

type publicFaculties interface {
	ListPublic(ctx context.Context) ([]models.FacultySummary, error)
}

type publicTeachers interface {
	Directory(ctx context.Context) ([]models.TeacherWithFaculty, error)
}

// PublicHandler serves the anonymous read side of the site.
type PublicHandler struct {
	news      publicNews
	faculties publicFaculties
	teachers  publicTeachers
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(news publicNews, faculties publicFaculties, teachers publicTeachers) *PublicHandler {
	return &PublicHandler{news: news, faculties: faculties, teachers: teachers}
}

// ListNews godoc
// @Summary Published news, newest first
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /news [get]
func (h *PublicHandler) ListNews(c *gin.Context) {
	items, err := h.news.ListPublished(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Public(c, items, map[string]interface{}{"count": len(items)})
}

// GetNews godoc
// @Summary A published article with rendered HTML
// @Tags Public
// @Produce json
// @Param slug path string true "News slug"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /news/{slug} [get]
func (h *PublicHandler) GetNews(c *gin.Context) {
	item, err := h.news.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Public(c, item, nil)
}

// ListFaculties godoc
// @Summary Faculties with teacher counts and a short roster
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /faculties [get]
func (h *PublicHandler) ListFaculties(c *gin.Context) {
	items, err := h.faculties.ListPublic(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Public(c, items, map[string]interface{}{"count": len(items)})
}

// ListTeachers godoc
// @Summary Teacher directory by name
// @Tags Public
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *PublicHandler) ListTeachers(c *gin.Context) {
	items, err := h.teachers.Directory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Public(c, items, map[string]interface{}{"count": len(items)})
}
