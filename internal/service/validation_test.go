package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/college-site-api/internal/dto"
	appErrors "github.com/noah-isme/college-site-api/pkg/errors"
)

func TestIsURLOrPath(t *testing.T) {
	for value, want := range map[string]bool{
		"/uploads/a.png":            true,
		"https://cdn.example/a.png": true,
		"http://example.org":        true,
		"//example.org/a.png":       false,
		"javascript:alert(1)":       false,
		"uploads/a.png":             false,
		"https://":                  false,
	} {
		assert.Equal(t, want, isURLOrPath(value), value)
	}
}

func TestValidationErrorUsesJSONNames(t *testing.T) {
	err := NewValidator().Struct(dto.TeacherUpsertRequest{FullName: "", FacultyID: "x"})
	require.Error(t, err)

	appErr := validationError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, []string{"full_name is required", "faculty_id must be a valid id"}, appErr.Details)
}

func TestNormalizeOptional(t *testing.T) {
	assert.Nil(t, normalizeOptional("   "))
	v := normalizeOptional(" x ")
	require.NotNil(t, v)
	assert.Equal(t, "x", *v)
}
