package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Policies are safe for concurrent use once built.
var (
	plainTextPolicy = bluemonday.StrictPolicy()
	richTextPolicy  = bluemonday.UGCPolicy()
)

// cleanText strips all markup from single-line fields such as titles and
// names. The result is plain text, so the entities the policy emits are
// decoded again; "O'Brien" is stored as typed and a second pass leaves it
// unchanged.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainTextPolicy.Sanitize(s)))
}

// cleanRichText keeps user-generated formatting but drops scripts, styles
// and event handlers. Post bodies are stored as HTML fragments, so entities
// stay escaped here.
func cleanRichText(s string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(s))
}
