package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/middleware"
	"github.com/noah-isme/college-site-api/internal/models"
	"github.com/noah-isme/college-site-api/internal/service"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
	"github.com/noah-isme/college-site-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// requestContext carries client details down to the audit trail.
func requestContext(c *gin.Context) context.Context {
	return service.WithRequestMeta(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"))
}

func listFilter(c *gin.Context) models.ListFilter {
	filter := models.ListFilter{
		Search:    strings.TrimSpace(c.Query("search")),
		SortBy:    c.Query("sort"),
		SortOrder: c.Query("order"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	return filter
}

func bindError(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}

// writeResult finishes an upsert: 201 for creates, 200 for updates, and the
// redirect directive either as a 303 or as Location plus meta.
func writeResult[T any](c *gin.Context, res *models.WriteResult[T]) {
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	response.Redirect(c, status, res.Redirect.Location, res.Item)
}

func deleteResult(c *gin.Context, id string, redirect *models.Redirect) {
	response.Redirect(c, http.StatusOK, redirect.Location, gin.H{"id": id, "deleted": true})
}
