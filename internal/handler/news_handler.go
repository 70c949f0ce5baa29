package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/pkg/response"
)

type newsService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.News, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.News, error)
	Upsert(ctx context.Context, actor *models.JWTClaims, req dto.NewsUpsertRequest) (*models.WriteResult[models.News], error)
	Delete(ctx context.Context, actor *models.JWTClaims, id string) (*models.Redirect, error)
}

// NewsHandler serves the admin news endpoints.
type NewsHandler struct {
	news newsService
}

// NewNewsHandler constructs a NewsHandler.
func NewNewsHandler(news newsService) *NewsHandler {
	return &NewsHandler{news: news}
}

// List godoc
// @Summary List news for the admin table
// @Tags Admin News
// @Produce json
// @Param search query string false "Search title or slug"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (title,published_at,created_at,updated_at)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/news [get]
func (h *NewsHandler) List(c *gin.Context) {
	items, pagination, err := h.news.List(c.Request.Context(), listFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a news article for editing
// @Tags Admin News
// @Produce json
// @Param id path string true "News ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/news/{id} [get]
func (h *NewsHandler) Get(c *gin.Context) {
	item, err := h.news.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Upsert godoc
// @Summary Create or update a news article
// @Description Creates when id is empty, otherwise rewrites every field of the article with that id.
// @Description Form posts are answered with 303 See Other to the admin list.
// @Tags Admin News
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.NewsUpsertRequest true "News payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Success 303
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/news [post]
func (h *NewsHandler) Upsert(c *gin.Context) {
	var req dto.NewsUpsertRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "invalid news payload"))
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	res, err := h.news.Upsert(requestContext(c), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeResult(c, res)
}

// Delete godoc
// @Summary Delete a news article
// @Tags Admin News
// @Produce json
// @Param id path string true "News ID"
// @Success 200 {object} response.Envelope
// @Success 303
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/news/{id} [delete]
func (h *NewsHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	redirect, err := h.news.Delete(requestContext(c), claimsFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleteResult(c, id, redirect)
}
