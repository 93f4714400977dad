// Package vcard provides parsing and validation of vCard 4.0 data
// as defined in RFC 6350.
//
// The package includes support for unfolding content lines, decoding
// property parameters, parsing the typed value grammars (text, text lists,
// structured values, URIs, dates and times, UTC offsets), enforcing
// per-property parameter allow-lists and cardinality bounds, and
// assembling BEGIN:VCARD / END:VCARD delimited cards from a buffer or a
// byte stream.
package vcard
