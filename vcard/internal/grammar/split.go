package grammar

import "github.com/ghettovoice/govcard/internal/constraints"

// SplitUnescaped splits s on every sep that is not backslash-escaped.
// Splitting runs before unescaping, so "a\;b;c" yields ["a\;b", "c"].
// Empty pieces are preserved: structured values have positional semantics.
func SplitUnescaped[T constraints.Byteseq](s T, sep byte) []T {
	out := make([]T, 0, 4)
	start, escaped := 0, false
	for i := 0; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == sep:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// SplitUnquoted splits s on every sep outside of double-quoted segments.
// Empty pieces are preserved.
func SplitUnquoted[T constraints.Byteseq](s T, sep byte) []T {
	out := make([]T, 0, 4)
	start, quoted := 0, false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			quoted = !quoted
		case s[i] == sep && !quoted:
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}

// IndexUnquoted returns the index of the first c outside of double-quoted
// segments, or -1.
func IndexUnquoted[T constraints.Byteseq](s T, c byte) int {
	quoted := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '"':
			quoted = !quoted
		case s[i] == c && !quoted:
			return i
		}
	}
	return -1
}
