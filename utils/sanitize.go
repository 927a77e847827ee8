package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// PlainText strips all markup from input and trims surrounding space.
// Entities produced by the sanitizer are unescaped back to plain characters.
func PlainText(input string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(input)))
}
