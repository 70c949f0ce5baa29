// Package slug turns human-entered titles into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
)

// Whitespace follows the JavaScript \s class so pasted non-breaking spaces
// still separate words.
var (
	disallowed = regexp.MustCompile(`[^\w\s\p{Z}\v\x{FEFF}-]`)
	separators = regexp.MustCompile(`[\s\p{Z}\v\x{FEFF}_-]+`)
)

// Generate lowercases and trims text, drops everything outside word
// characters, whitespace and hyphens, collapses separator runs into a single
// hyphen and strips hyphens at both ends. The result only contains [a-z0-9-]
// and Generate(Generate(s)) == Generate(s).
func Generate(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))
	s = disallowed.ReplaceAllString(s, "")
	s = separators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
