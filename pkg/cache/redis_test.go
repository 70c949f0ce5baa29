package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPagePatterns(t *testing.T) {
	assert.Equal(t, "page:/news", PageKey("/news"))
	assert.Equal(t, []string{"page:/news/a", `page:/news/a\?*`}, PagePatterns("/news/a"))
	assert.Equal(t, []string{`page:/x\*`, `page:/x\*\?*`}, PagePatterns("/x*"))
}
