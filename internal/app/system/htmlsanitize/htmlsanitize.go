// Package htmlsanitize cleans text received from the admin API before it
// reaches a template.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text strips every tag from s and returns plain text. Entities produced by
// the policy are decoded so html/template escapes them exactly once.
func Text(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// TextOr returns Text(s), or fallback when the result is empty.
func TextOr(s, fallback string) string {
	if t := Text(s); t != "" {
		return t
	}
	return fallback
}
