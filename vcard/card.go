package vcard

import (
	"github.com/ghettovoice/govcard/internal/stringutils"
)

// Card is one assembled vCard, the properties between a BEGIN:VCARD and
// its matching END:VCARD in source order.
type Card struct {
	// Properties holds the card's content lines, BEGIN and END excluded.
	Properties []*Property
}

// Get returns all properties with the given name in source order.
func (c *Card) Get(name string) []*Property {
	name = stringutils.LCase(name)
	var props []*Property
	for _, p := range c.Properties {
		if p.Name == name {
			props = append(props, p)
		}
	}
	return props
}

// First returns the first property with the given name, nil when absent.
func (c *Card) First(name string) *Property {
	name = stringutils.LCase(name)
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Version returns the card's VERSION value.
func (c *Card) Version() string {
	if p := c.First("version"); p != nil {
		return p.Value.String()
	}
	return ""
}

func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	c2 := &Card{Properties: make([]*Property, len(c.Properties))}
	for i, p := range c.Properties {
		c2.Properties[i] = p.Clone()
	}
	return c2
}

func (c *Card) String() string {
	if c == nil {
		return "<nil>"
	}
	sb := stringutils.NewStrBldr()
	defer stringutils.FreeStrBldr(sb)
	sb.WriteString("BEGIN:VCARD\r\n")
	for _, p := range c.Properties {
		sb.WriteString(p.String())
		sb.WriteString("\r\n")
	}
	sb.WriteString("END:VCARD\r\n")
	return sb.String()
}
