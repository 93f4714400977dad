package vcard

import (
	"bytes"
	"fmt"

	"braces.dev/errtrace"

	"github.com/ghettovoice/govcard/internal/errorutil"
	"github.com/ghettovoice/govcard/internal/stringutils"
	"github.com/ghettovoice/govcard/vcard/internal/grammar"
)

// DefaultGroup marks a property that carries no group prefix.
// Grouped and ungrouped properties with the same name count together
// for cardinality purposes.
const DefaultGroup = "_default"

// Property is a single decoded content line of a card.
type Property struct {
	// Name is the property name normalized to lowercase.
	Name string
	// Group is the optional group prefix, DefaultGroup when absent.
	Group string
	// Params holds the decoded parameters keyed by lowercase name.
	Params Values
	// Value is the typed value produced by the property's value grammar.
	Value Value
}

func (p *Property) String() string {
	if p == nil {
		return "<nil>"
	}
	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)
	if p.Group != DefaultGroup {
		sb.WriteString(p.Group)
		sb.WriteByte('.')
	}
	sb.WriteString(stringutils.UCase(p.Name))
	for k, vs := range p.Params {
		for _, v := range vs {
			fmt.Fprintf(sb, ";%s=%s", stringutils.UCase(k), v)
		}
	}
	sb.WriteByte(':')
	if p.Value != nil {
		sb.WriteString(p.Value.String())
	}
	return sb.String()
}

func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	p2 := &Property{
		Name:   p.Name,
		Group:  p.Group,
		Params: p.Params.Clone(),
		Value:  p.Value,
	}
	switch v := p.Value.(type) {
	case TextList:
		p2.Value = v.Clone()
	case Structured:
		p2.Value = v.Clone()
	case DateAndOrTime:
		p2.Value = v.Clone()
	}
	return p2
}

func newMalformedPropertyErr(args ...any) error {
	return errorutil.NewWrapperError(ErrMalformedProperty, args...) //errtrace:skip
}

// parseProperty decodes one unfolded logical line into a Property.
// The split points are located before any unescaping: the value colon is
// the first colon outside double quotes, parameter segments break on
// unquoted semicolons.
func parseProperty(line []byte) (*Property, error) {
	colon := grammar.IndexUnquoted(line, ':')
	if colon < 0 {
		return nil, errtrace.Wrap(newMalformedPropertyErr("%q: missing ':'", excerpt(line)))
	}
	segs := grammar.SplitUnquoted(line[:colon], ';')
	name := segs[0]
	group := DefaultGroup
	if dot := bytes.IndexByte(name, '.'); dot >= 0 {
		group, name = string(name[:dot]), name[dot+1:]
		if !grammar.IsGroup(group) {
			return nil, errtrace.Wrap(newMalformedPropertyErr("group %q", group))
		}
	}
	if !grammar.IsIANAToken(name) {
		return nil, errtrace.Wrap(newMalformedPropertyErr("name %q", name))
	}

	prop := &Property{
		Name:  stringutils.LCase(string(name)),
		Group: group,
	}
	spec, ok := properties[prop.Name]
	if !ok {
		// extension or unregistered iana property, free-form text value
		spec = extensionProperty
	}

	params, err := parseParams(segs[1:], spec.Params)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	prop.Params = params

	val, err := spec.Parse(line[colon+1:], params)
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	prop.Value = val
	return prop, nil
}

// excerpt bounds raw input reproduced in error messages.
func excerpt(b []byte) []byte {
	const max = 32
	if len(b) > max {
		return b[:max]
	}
	return b
}
