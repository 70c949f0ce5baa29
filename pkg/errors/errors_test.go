package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", Clone(ErrNotFound, "news not found"))
	appErr := FromError(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "news not found", appErr.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(stdErrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
}

func TestValidationJoinsDetails(t *testing.T) {
	err := Validation("title must be at least 3 characters", "content is required")
	assert.Equal(t, ErrValidation.Code, err.Code)
	assert.Equal(t, "title must be at least 3 characters, content is required", err.Message)
	assert.Len(t, err.Details, 2)
	assert.Empty(t, ErrValidation.Details)
}

func TestPersistenceConflictStatus(t *testing.T) {
	cause := stdErrors.New("duplicate key")
	conflict := Persistence(cause, true, "slug already taken")
	assert.Equal(t, http.StatusConflict, conflict.Status)
	assert.ErrorIs(t, conflict, cause)

	generic := Persistence(cause, false, "failed to save news")
	assert.Equal(t, http.StatusInternalServerError, generic.Status)
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Clone(ErrUnauthorized, "session required"))
	assert.True(t, IsKind(err, ErrUnauthorized))
	assert.False(t, IsKind(err, ErrValidation))
	assert.True(t, stdErrors.Is(err, ErrUnauthorized))
}
