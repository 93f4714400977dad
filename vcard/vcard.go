package vcard

// Versions lists the vCard versions the parser accepts.
var Versions = []string{"4.0"}

func versionSupported(v string) bool {
	for _, sv := range Versions {
		if v == sv {
			return true
		}
	}
	return false
}

// Document is the result of parsing a complete input, one or more cards
// in source order.
type Document struct {
	Cards []*Card
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	d2 := &Document{Cards: make([]*Card, len(d.Cards))}
	for i, c := range d.Cards {
		d2.Cards[i] = c.Clone()
	}
	return d2
}
