// Package grammar implements the character-level rules of the vCard 4.0
// syntax (RFC 6350): value and parameter alphabets, escaping, line
// unfolding, structured-value splitting and the date-and-or-time forms.
package grammar

import (
	"fmt"

	"github.com/ghettovoice/govcard/internal/constraints"
)

type Error string

func (e Error) Error() string { return fmt.Sprintf("grammar error: %s", string(e)) }

func (e Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

// IsAlphaChar checks the ALPHA rule.
func IsAlphaChar(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// IsDigitChar checks the DIGIT rule.
func IsDigitChar(c byte) bool { return '0' <= c && c <= '9' }

// IsAlphanumChar checks the alphanum rule.
func IsAlphanumChar(c byte) bool { return IsAlphaChar(c) || IsDigitChar(c) }

// IsTokenChar checks a single char of the iana-token / x-name rules.
func IsTokenChar(c byte) bool { return IsAlphanumChar(c) || c == '-' }

// IsIANAToken checks the iana-token rule: 1*(ALPHA / DIGIT / "-").
func IsIANAToken[T constraints.Byteseq](s T) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !IsTokenChar(s[i]) {
			return false
		}
	}
	return true
}

// IsXName checks the x-name rule: "x-" 1*(ALPHA / DIGIT / "-").
func IsXName[T constraints.Byteseq](s T) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] != 'x' && s[0] != 'X' {
		return false
	}
	if s[1] != '-' {
		return false
	}
	return IsIANAToken(s[2:])
}

// IsGroup checks the group rule: 1*(ALPHA / DIGIT / "-").
func IsGroup[T constraints.Byteseq](s T) bool { return IsIANAToken(s) }

// IsSafeChar checks the SAFE-CHAR rule: any character except CTLs,
// DQUOTE, ";", ":".
func IsSafeChar(c byte) bool {
	switch {
	case c == ' ' || c == '\t':
		return true
	case c == 0x21:
		return true
	case 0x23 <= c && c <= 0x39:
		return true
	case 0x3c <= c && c <= 0x7e:
		return true
	case c >= 0x80:
		return true
	}
	return false
}

// IsQSafeChar checks the QSAFE-CHAR rule: any character except CTLs and DQUOTE.
func IsQSafeChar(c byte) bool {
	switch {
	case c == ' ' || c == '\t':
		return true
	case c == 0x21:
		return true
	case 0x23 <= c && c <= 0x7e:
		return true
	case c >= 0x80:
		return true
	}
	return false
}

// IsValueChar checks the VALUE-CHAR rule: WSP / VCHAR / NON-ASCII.
func IsValueChar(c byte) bool {
	return c == ' ' || c == '\t' || 0x21 <= c && c <= 0x7e || c >= 0x80
}

// IsQuoted reports whether s is wrapped in double quotes with a QSAFE-CHAR body.
func IsQuoted[T constraints.Byteseq](s T) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	for i := 1; i < len(s)-1; i++ {
		if !IsQSafeChar(s[i]) {
			return false
		}
	}
	return true
}

// Unquote strips a pair of wrapping double quotes. An unquoted s is
// returned unchanged.
func Unquote[T constraints.Byteseq](s T) T {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// IsSchemeChar checks a non-leading char of the URI scheme rule.
func IsSchemeChar(c byte) bool {
	return IsAlphanumChar(c) || c == '+' || c == '-' || c == '.'
}

// SchemeEnd returns the index of the ":" terminating a valid URI scheme
// in s, or -1 when s does not begin with one.
func SchemeEnd[T constraints.Byteseq](s T) int {
	if len(s) == 0 || !IsAlphaChar(s[0]) {
		return -1
	}
	for i := 1; i < len(s); i++ {
		switch {
		case s[i] == ':':
			return i
		case !IsSchemeChar(s[i]):
			return -1
		}
	}
	return -1
}
