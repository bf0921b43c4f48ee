package retrieval

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// Excerpt returns a bounded window of content for display, centered on
// the first case-insensitive occurrence of the full query string.
// Content within the limit is returned unchanged. Ellipsis markers are
// added on any clamped edge and count against the length budget, so
// the result never exceeds maxLength plus one trailing marker. Cuts
// land on rune boundaries so multi-byte content is never split.
// Pure function, deterministic for given inputs.
func Excerpt(content, query string, maxLength int) string {
	if len(content) <= maxLength {
		return content
	}

	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		// Query not found verbatim (multi-word queries rarely appear
		// contiguously): plain prefix truncation.
		return content[:runeFloor(content, maxLength)] + ellipsis
	}

	half := maxLength/2 - len(ellipsis)
	if half < 0 {
		half = 0
	}
	start := idx - half
	if start < 0 {
		start = 0
	}
	end := idx + half
	if end > len(content) {
		end = len(content)
	}
	start = runeFloor(content, start)
	end = runeFloor(content, end)

	excerpt := content[start:end]
	if start > 0 {
		excerpt = ellipsis + excerpt
	}
	if end < len(content) {
		excerpt += ellipsis
	}
	return excerpt
}

// runeFloor moves a byte offset left until it sits on a rune boundary.
func runeFloor(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
