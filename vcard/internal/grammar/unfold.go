package grammar

import (
	"iter"

	"github.com/ghettovoice/govcard/internal/constraints"
)

// Unfold removes every RFC 6350 §3.2 fold marker: a CRLF (bare LF is
// tolerated) immediately followed by exactly one space or horizontal tab.
// The continuation is joined onto the prior line with no inserted
// separator. Repeated folds collapse transitively; all other bytes pass
// through unchanged.
func Unfold[T constraints.Byteseq](s T) T {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if n := foldLen(s, i); n > 0 {
			i += n - 1
			continue
		}
		out = append(out, s[i])
	}
	return T(out)
}

// foldLen returns the length of the fold marker starting at i, or 0.
func foldLen[T constraints.Byteseq](s T, i int) int {
	switch s[i] {
	case '\r':
		if i+2 < len(s) && s[i+1] == '\n' && isWSP(s[i+2]) {
			return 3
		}
	case '\n':
		if i+1 < len(s) && isWSP(s[i+1]) {
			return 2
		}
	}
	return 0
}

func isWSP(c byte) bool { return c == ' ' || c == '\t' }

// Lines yields the logical (post-unfolding) lines of s along with their
// 1-based numbers. Line terminators are not included. A final line without
// a terminator is still yielded.
func Lines(s []byte) iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		num, start := 1, 0
		for i := 0; i < len(s); i++ {
			if s[i] != '\n' {
				continue
			}
			end := i
			if end > start && s[end-1] == '\r' {
				end--
			}
			if !yield(num, s[start:end]) {
				return
			}
			num++
			start = i + 1
		}
		if start < len(s) {
			yield(num, s[start:])
		}
	}
}
