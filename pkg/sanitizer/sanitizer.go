// Package sanitizer normalizes user-supplied identifiers before validation.
// Room titles are the primary key users type by hand, so lookups and
// uniqueness checks must not depend on incidental whitespace.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize strips leading and trailing whitespace and collapses
// interior whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeTitle canonicalizes a room title. "Blue  Room " and "Blue Room"
// refer to the same room.
func NormalizeTitle(title string) string {
	return TrimAndNormalize(title)
}
