package vcard

import "github.com/ghettovoice/govcard/internal/errorutil"

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument
)

// Parse errors, one per structural failure kind.
const (
	// ErrUnterminatedCard is returned when the input is exhausted before END:VCARD.
	ErrUnterminatedCard Error = "unterminated card"
	// ErrMalformedProperty is returned when a content line has no value colon,
	// or its name matches neither the known set nor the extension shape.
	ErrMalformedProperty Error = "unknown or malformed property"
	// ErrBadParameterValue is returned when a parameter value fails its grammar.
	ErrBadParameterValue Error = "bad parameter value"
	// ErrDisallowedParameter is returned for a parameter kind outside the
	// property's allow-list that is not extension-shaped.
	ErrDisallowedParameter Error = "disallowed parameter"
	// ErrCardinalityViolation is returned when a property count falls outside
	// its declared range.
	ErrCardinalityViolation Error = "cardinality violation"
	// ErrBadVersion is returned when VERSION is missing, not the first
	// property of its card, or carries an unsupported value.
	ErrBadVersion Error = "bad version"
	// ErrBadDateTime is returned when a date-and-or-time token matches none of
	// the permitted truncated forms.
	ErrBadDateTime Error = "bad date-time"
)

// Error represents a vCard error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}
