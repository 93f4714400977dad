package vcard

import (
	"fmt"
	"strings"

	"github.com/ghettovoice/govcard/internal/stringutils"
	"github.com/ghettovoice/govcard/vcard/internal/grammar"
)

// ValueKind discriminates the closed set of property value variants.
type ValueKind int

const (
	KindText ValueKind = iota
	KindTextList
	KindStructured
	KindURI
	KindDateAndOrTime
	KindUTCOffset
	KindPIDMap
)

// Value represents a parsed, typed property value.
//
// The set of implementations is closed: [Text], [TextList], [Structured],
// [URI], [DateAndOrTime], [UTCOffset] and [PIDMap].
// String renderings are diagnostic only; re-folding a card back to text is
// a downstream concern.
type Value interface {
	ValueKind() ValueKind
	String() string
}

// Text is a free-text value, escape-decoded.
type Text string

func (Text) ValueKind() ValueKind { return KindText }

func (v Text) String() string { return string(v) }

// TextList is an ordered list of text values, comma-separated in source.
type TextList []string

func (TextList) ValueKind() ValueKind { return KindTextList }

func (v TextList) String() string { return strings.Join(v, ",") }

func (v TextList) Clone() TextList {
	if v == nil {
		return nil
	}
	v2 := make(TextList, len(v))
	copy(v2, v)
	return v2
}

// Structured is an ordered list of components, each an ordered list of
// sub-values: semicolon then comma splitting, with empty components
// preserved for positional semantics.
type Structured [][]string

func (Structured) ValueKind() ValueKind { return KindStructured }

func (v Structured) String() string {
	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)
	for i, comp := range v {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(strings.Join(comp, ","))
	}
	return sb.String()
}

func (v Structured) Clone() Structured {
	if v == nil {
		return nil
	}
	v2 := make(Structured, len(v))
	for i, comp := range v {
		v2[i] = make([]string, len(comp))
		copy(v2[i], comp)
	}
	return v2
}

// Component returns the i-th component, or nil when absent.
func (v Structured) Component(i int) []string {
	if i < 0 || i >= len(v) {
		return nil
	}
	return v[i]
}

// URI is a scheme-tagged opaque URI value.
type URI struct {
	Scheme string
	Opaque string
}

func (URI) ValueKind() ValueKind { return KindURI }

func (v URI) String() string { return v.Scheme + ":" + v.Opaque }

// Unset marks an absent component of a [DateAndOrTime].
const Unset = grammar.Unset

// DateAndOrTime is a partial date-and-or-time record. Components the
// source form does not carry are [Unset], never zero.
type DateAndOrTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Zone                 *UTCOffset
}

func (DateAndOrTime) ValueKind() ValueKind { return KindDateAndOrTime }

func (v DateAndOrTime) String() string {
	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)
	switch {
	case v.Year != Unset && v.Month != Unset && v.Day != Unset:
		fmt.Fprintf(sb, "%04d%02d%02d", v.Year, v.Month, v.Day)
	case v.Year != Unset && v.Month != Unset:
		fmt.Fprintf(sb, "%04d-%02d", v.Year, v.Month)
	case v.Year != Unset:
		fmt.Fprintf(sb, "%04d", v.Year)
	case v.Month != Unset && v.Day != Unset:
		fmt.Fprintf(sb, "--%02d%02d", v.Month, v.Day)
	case v.Month != Unset:
		fmt.Fprintf(sb, "--%02d", v.Month)
	case v.Day != Unset:
		fmt.Fprintf(sb, "---%02d", v.Day)
	}
	if v.Hour != Unset || v.Minute != Unset || v.Second != Unset {
		sb.WriteByte('T')
		switch {
		case v.Hour != Unset:
			fmt.Fprintf(sb, "%02d", v.Hour)
			if v.Minute != Unset {
				fmt.Fprintf(sb, "%02d", v.Minute)
				if v.Second != Unset {
					fmt.Fprintf(sb, "%02d", v.Second)
				}
			}
		case v.Minute != Unset:
			fmt.Fprintf(sb, "-%02d%02d", v.Minute, v.Second)
		default:
			fmt.Fprintf(sb, "--%02d", v.Second)
		}
		if v.Zone != nil {
			sb.WriteString(v.Zone.String())
		}
	}
	return sb.String()
}

// Clone returns a deep copy of the record.
func (v DateAndOrTime) Clone() DateAndOrTime {
	if v.Zone != nil {
		z := *v.Zone
		v.Zone = &z
	}
	return v
}

// UTCOffset is a parsed UTC offset value: Sign is +1 or -1.
type UTCOffset struct {
	Sign   int
	Hour   int
	Minute int
}

func (UTCOffset) ValueKind() ValueKind { return KindUTCOffset }

func (v UTCOffset) String() string {
	sign := byte('+')
	if v.Sign < 0 {
		sign = '-'
	}
	return fmt.Sprintf("%c%02d%02d", sign, v.Hour, v.Minute)
}

// PIDMap is the CLIENTPIDMAP value: a property ID source mapping.
type PIDMap struct {
	ID  int
	URI URI
}

func (PIDMap) ValueKind() ValueKind { return KindPIDMap }

func (v PIDMap) String() string { return fmt.Sprintf("%d;%s", v.ID, v.URI) }

func newDateAndOrTime(dt grammar.DateTime) DateAndOrTime {
	v := DateAndOrTime{
		Year: dt.Year, Month: dt.Month, Day: dt.Day,
		Hour: dt.Hour, Minute: dt.Minute, Second: dt.Second,
	}
	if dt.Zone != nil {
		v.Zone = &UTCOffset{Sign: dt.Zone.Sign, Hour: dt.Zone.Hour, Minute: dt.Zone.Minute}
	}
	return v
}

func newUTCOffset(off grammar.Offset) UTCOffset {
	return UTCOffset{Sign: off.Sign, Hour: off.Hour, Minute: off.Minute}
}
