// Package sanitize cleans free-text input before it is stored.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	markupTag  = regexp.MustCompile(`<[^>]*>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Name strips markup from a person's name, decodes entities and collapses
// runs of whitespace into single spaces. The result is trimmed.
func Name(s string) string {
	cleaned := markupTag.ReplaceAllString(s, "")
	cleaned = html.UnescapeString(cleaned)
	// decoded entities may have formed new tags
	cleaned = markupTag.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(whitespace.ReplaceAllString(cleaned, " "))
}

// NamePtr applies Name to an optional value. nil stays nil.
func NamePtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := Name(*s)
	return &cleaned
}
