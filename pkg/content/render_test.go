package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("# Open day\n\nWelcome **students**\nsee you")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>students</strong>")
	assert.Contains(t, out, "<br")
}

func TestRenderStripsScripts(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render("hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
}

func TestSanitize(t *testing.T) {
	r := NewRenderer()
	out := r.Sanitize(`<a href="https://college.am" onclick="x()">site</a>`)
	assert.Contains(t, out, `href="https://college.am"`)
	assert.Contains(t, out, "nofollow")
	assert.NotContains(t, out, "onclick")
}
