// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// htmlTagRegex matches HTML tags
	htmlTagRegex = regexp.MustCompile(`<[^>]*>`)
	// jsProtoRegex matches javascript: protocol handlers
	jsProtoRegex = regexp.MustCompile(`(?i)javascript:`)
	// eventAttrRegex matches inline event handler attributes like onclick=
	eventAttrRegex = regexp.MustCompile(`(?i)\bon\w+=`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// Frontend should also escape output.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	// Decode common HTML entities
	result = strings.ReplaceAll(result, "&lt;", "<")
	result = strings.ReplaceAll(result, "&gt;", ">")
	result = strings.ReplaceAll(result, "&amp;", "&")
	result = strings.ReplaceAll(result, "&quot;", "\"")
	result = strings.ReplaceAll(result, "&#39;", "'")
	// Re-strip after entity decode to catch encoded tags
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text sanitizes a string for safe text storage by stripping HTML tags,
// javascript: handlers and inline event attributes. Use for user-provided
// fields like chat messages, notes, and names.
func Text(s string) string {
	result := StripHTML(s)
	result = jsProtoRegex.ReplaceAllString(result, "")
	result = eventAttrRegex.ReplaceAllString(result, "")
	return result
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
