// Package govcard provides a vCard 4.0 (RFC 6350) parsing and validation
// engine. The root package re-exports the most used entry points of the
// [github.com/ghettovoice/govcard/vcard] package.
package govcard

import (
	"io"

	"braces.dev/errtrace"

	"github.com/ghettovoice/govcard/internal/constraints"
	"github.com/ghettovoice/govcard/vcard"
)

// Version is the current govcard package version
var Version = "0.0.0"

type (
	Document = vcard.Document
	Card     = vcard.Card
	Property = vcard.Property
)

// Parse parses all cards from the given input.
// See [vcard.Parse] for details.
func Parse[T constraints.Byteseq](s T) (*Document, error) {
	return errtrace.Wrap2(vcard.Parse(s))
}

// ParseStream creates a stream parser for the given reader.
// See [vcard.ParseStream] for details.
func ParseStream(r io.Reader) vcard.StreamParser {
	return vcard.ParseStream(r)
}
