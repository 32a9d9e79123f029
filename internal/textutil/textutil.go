// Package textutil provides small text helpers shared by the pipeline
// stages and the media renderer: model-output cleanup and name
// sanitizing.
package textutil

import "strings"

// Excerpt truncates s to at most max runes, cutting on a rune boundary.
func Excerpt(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// StripQuotes removes surrounding double quotes and whitespace. Models
// often quote titles even when asked for plain text.
func StripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}

// ParseList splits a model response on commas, semicolons and newlines
// and drops empty entries.
func ParseList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	})
	items := make([]string, 0, len(fields))
	for _, f := range fields {
		if item := strings.TrimSpace(f); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Handle converts a display name to a lowercase handle with no spaces,
// the shape platforms use in profile URLs.
func Handle(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
}
