package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/pkg/response"
)

type facultyService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.Faculty, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Faculty, error)
	Upsert(ctx context.Context, actor *models.JWTClaims, req dto.FacultyUpsertRequest) (*models.WriteResult[models.Faculty], error)
	Delete(ctx context.Context, actor *models.JWTClaims, id string) (*models.Redirect, error)
}

// FacultyHandler serves the admin faculty endpoints.
type FacultyHandler struct {
	faculties facultyService
}

// NewFacultyHandler constructs a FacultyHandler.
func NewFacultyHandler(faculties facultyService) *FacultyHandler {
	return &FacultyHandler{faculties: faculties}
}

// List godoc
// @Summary List faculties for the admin table
// @Tags Admin Faculties
// @Produce json
// @Param search query string false "Search name or slug"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (name,created_at,updated_at)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /admin/faculties [get]
func (h *FacultyHandler) List(c *gin.Context) {
	items, pagination, err := h.faculties.List(c.Request.Context(), listFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a faculty for editing
// @Tags Admin Faculties
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/faculties/{id} [get]
func (h *FacultyHandler) Get(c *gin.Context) {
	item, err := h.faculties.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Upsert godoc
// @Summary Create or update a faculty
// @Description Creates when id is empty, otherwise rewrites every field of the faculty with that id.
// @Description Form posts are answered with 303 See Other to the admin list.
// @Tags Admin Faculties
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.FacultyUpsertRequest true "Faculty payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Success 303
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/faculties [post]
func (h *FacultyHandler) Upsert(c *gin.Context) {
	var req dto.FacultyUpsertRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "invalid faculty payload"))
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	res, err := h.faculties.Upsert(requestContext(c), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeResult(c, res)
}

// Delete godoc
// @Summary Delete a faculty
// @Tags Admin Faculties
// @Produce json
// @Param id path string true "Faculty ID"
// @Success 200 {object} response.Envelope
// @Success 303
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/faculties/{id} [delete]
func (h *FacultyHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	redirect, err := h.faculties.Delete(requestContext(c), claimsFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleteResult(c, id, redirect)
}
