package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/dto"
	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/internal/service"
	"github.com/noah-isme/college-site-api/pkg/response"
)

type teacherService interface {
	List(ctx context.Context, filter models.ListFilter) ([]models.TeacherWithFaculty, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.TeacherWithFaculty, error)
	Upsert(ctx context.Context, actor *models.JWTClaims, req dto.TeacherUpsertRequest) (*models.WriteResult[models.Teacher], error)
	Delete(ctx context.Context, actor *models.JWTClaims, id string) (*models.Redirect, error)
}

type directoryExporter interface {
	TeacherDirectory(ctx context.Context, actor *models.JWTClaims, format string) (*service.ExportFile, error)
}

// TeacherHandler wires teacher services to HTTP routes.
type TeacherHandler struct {
	teachers teacherService
	exporter directoryExporter
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers teacherService, exporter directoryExporter) *TeacherHandler {
	return &TeacherHandler{teachers: teachers, exporter: exporter}
}

// List godoc
// @Summary List teachers
// @Tags Admin Teachers
// @Produce json
// @Param search query string false "Search by name, position or faculty"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort field (full_name,position,faculty,created_at,updated_at)"
// @Param order query string false "Sort order (asc/desc)"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, pagination, err := h.teachers.List(c.Request.Context(), listFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// Get godoc
// @Summary Get teacher detail
// @Tags Admin Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers/{id} [get]
func (h *TeacherHandler) Get(c *gin.Context) {
	teacher, err := h.teachers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// Upsert godoc
// @Summary Create or update teacher
// @Tags Admin Teachers
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.TeacherUpsertRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/teachers [post]
func (h *TeacherHandler) Upsert(c *gin.Context) {
	var req dto.TeacherUpsertRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err, "invalid teacher payload"))
		return
	}
	if id := c.Param("id"); id != "" {
		req.ID = id
	}
	res, err := h.teachers.Upsert(requestContext(c), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	writeResult(c, res)
}

// Delete godoc
// @Summary Delete teacher
// @Tags Admin Teachers
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /admin/teachers/{id} [delete]
func (h *TeacherHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	redirect, err := h.teachers.Delete(requestContext(c), claimsFromContext(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	deleteResult(c, id, redirect)
}

// Export godoc
// @Summary Export the teacher directory
// @Tags Admin Teachers
// @Produce text/csv,application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/teachers/export [get]
func (h *TeacherHandler) Export(c *gin.Context) {
	file, err := h.exporter.TeacherDirectory(c.Request.Context(), claimsFromContext(c), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
