package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/college-site-api/internal/models"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

// Public sends a cacheable success response for anonymous readers.
func Public(c *gin.Context, data interface{}, meta map[string]interface{}) {
	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, Envelope{Data: data, Meta: meta})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Redirect completes a write. Browser form posts get a 303 to location;
// API clients get the payload with the target in the Location header and meta.
func Redirect(c *gin.Context, status int, location string, data interface{}) {
	if WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, location)
		return
	}
	c.Header("Location", location)
	JSON(c, status, data, nil, map[string]interface{}{"redirect": location})
}

// WantsHTML reports whether the caller is a browser submitting a form or
// navigating directly.
func WantsHTML(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, gin.MIMEHTML) && !strings.Contains(accept, gin.MIMEJSON)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
