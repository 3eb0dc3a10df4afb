package util

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	t.Run("trims and collapses whitespace", func(t *testing.T) {
		require.Equal(t, "Ada Lovelace", SanitizeText("  Ada \t\n  Lovelace  "))
	})

	t.Run("drops control and invisible characters", func(t *testing.T) {
		require.Equal(t, "Room101", SanitizeText("Room\u200B1\x0001"))
		require.Equal(t, "Bed A", SanitizeText("\uFEFFBed A"))
	})

	t.Run("empty after cleaning", func(t *testing.T) {
		require.Equal(t, "", SanitizeText(" \u200D\u2060 "))
	})

	t.Run("truncates by runes", func(t *testing.T) {
		actual := SanitizeText(strings.Repeat("é", 300))
		require.True(t, utf8.ValidString(actual))
		require.Equal(t, 255, utf8.RuneCountInString(actual))
	})
}
