package grammar

import (
	"bytes"
	"unicode/utf8"

	"github.com/ghettovoice/govcard/internal/constraints"
)

// Unescape decodes the TEXT value escapes: "\\", "\,", "\;" to the literal
// character, "\n" to LF and a backslash followed by CR to CR. Any other
// escaped character is passed through with the backslash dropped, so a
// malformed escape never aborts parsing. A trailing lone backslash is kept.
func Unescape[T constraints.Byteseq](s T) T {
	if bytes.IndexByte([]byte(s), '\\') < 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		if s[i] == 'n' {
			b.WriteByte('\n')
		} else {
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// Escape encodes the TEXT value escapes: backslash, comma and semicolon get
// a backslash prefix, LF becomes "\n" and CR is backslash-prefixed.
// Unescape(Escape(s)) == s for any s over the TEXT alphabet.
func Escape[T constraints.Byteseq](s T) T {
	var b bytes.Buffer
	b.Grow(len(s) + len(s)/4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', ',', ';', '\r':
			b.WriteByte('\\')
			b.WriteByte(s[i])
		case '\n':
			b.WriteByte('\\')
			b.WriteByte('n')
		default:
			b.WriteByte(s[i])
		}
	}
	return T(b.Bytes())
}

// DecodeParamValue decodes the "<U+XXXX>" literal tokens of a parameter
// value to the corresponding character. Parameter values have no
// backslash-escape convention; anything that is not a well-formed token is
// kept verbatim.
func DecodeParamValue[T constraints.Byteseq](s T) T {
	if bytes.IndexByte([]byte(s), '<') < 0 {
		return s
	}

	var b bytes.Buffer
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			b.WriteByte(s[i])
			continue
		}
		if r, n := decodeCodepointToken([]byte(s)[i:]); n > 0 {
			b.WriteRune(r)
			i += n - 1
			continue
		}
		b.WriteByte(s[i])
	}
	return T(b.Bytes())
}

// decodeCodepointToken parses a leading "<U+XXXX>" token and returns the
// decoded rune and the token length, or 0 when s does not start with one.
func decodeCodepointToken(s []byte) (rune, int) {
	if len(s) < 5 || (s[1] != 'U' && s[1] != 'u') || s[2] != '+' {
		return 0, 0
	}
	var cp int64
	i := 3
	for ; i < len(s) && s[i] != '>'; i++ {
		if !ishex(s[i]) {
			return 0, 0
		}
		cp = cp<<4 | int64(unhex(s[i]))
		if cp > utf8.MaxRune {
			return 0, 0
		}
	}
	if i == len(s) || i == 3 {
		return 0, 0
	}
	return rune(cp), i + 1
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
