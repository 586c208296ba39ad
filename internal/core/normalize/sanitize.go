package normalize

import (
	"strings"
	"unicode/utf8"
)

// dropped reports runes that never belong in a filter value: controls other than
// tab, newline and carriage return, DEL, C1 controls and undecodable bytes
func dropped(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return true
	case r == '\t' || r == '\n' || r == '\r':
		return false
	case r < 0x20 || r == 0x7F:
		return true
	default:
		return r >= 0x80 && r <= 0x9F
	}
}

// Sanitize strips dropped runes; clean input is returned without copying
func Sanitize(s string) string {
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if dropped(r, size) {
			break
		}
		i += size
	}
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !dropped(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}
