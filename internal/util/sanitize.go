package util

import (
	"strings"
	"unicode"
)

const maxTextRunes = 255

// SanitizeText cleans a single-line form value before it is sent to the
// hospital API: control and invisible characters are dropped, whitespace runs
// collapse to one space, and the result is capped at 255 runes.
func SanitizeText(value string) string {
	builder := strings.Builder{}
	builder.Grow(len(value))

	pendingSpace := false
	for _, char := range value {
		if unicode.IsSpace(char) {
			pendingSpace = builder.Len() > 0
			continue
		}
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		if pendingSpace {
			builder.WriteByte(' ')
			pendingSpace = false
		}
		builder.WriteRune(char)
	}

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	runes := []rune(builder.String())
	if len(runes) > maxTextRunes {
		runes = runes[:maxTextRunes]
	}
	return strings.TrimSpace(string(runes))
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u200E', // Left-to-Right Mark
		'\u200F', // Right-to-Left Mark
		'\u2060', // Word Joiner
		'\uFEFF', // Zero-Width No-Break Space / BOM
		'\uFFF9', // Interlinear Annotation Anchor
		'\uFFFA', // Interlinear Annotation Separator
		'\uFFFB': // Interlinear Annotation Terminator
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
