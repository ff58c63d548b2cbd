package util

import "strings"

// SanitizeText strips NUL bytes and non-printing control characters that some
// PDF extractors emit and that Postgres text columns reject. Common whitespace
// is kept.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")
	out := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			out = append(out, ch)
			continue
		}
		if ch < 0x20 {
			continue
		}
		out = append(out, ch)
	}
	return string(out)
}
