package vcard_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ghettovoice/govcard/vcard"
)

var _ = Describe("Card", Label("card"), func() {
	newCard := func() *vcard.Card {
		return &vcard.Card{Properties: []*vcard.Property{
			prop("version", nil, vcard.Text("4.0")),
			prop("fn", nil, vcard.Text("Jane Doe")),
			prop("tel", vcard.Values{"type": {"voice"}}, vcard.URI{Scheme: "tel", Opaque: "+1111"}),
			prop("tel", vcard.Values{"type": {"fax"}}, vcard.URI{Scheme: "tel", Opaque: "+2222"}),
		}}
	}

	It("looks up properties by name", func() {
		c := newCard()

		Expect(c.Version()).To(Equal("4.0"))
		Expect(c.First("FN").Value).To(Equal(vcard.Text("Jane Doe")))
		Expect(c.First("adr")).To(BeNil())
		Expect(c.Get("tel")).To(HaveLen(2))
		Expect(c.Get("TEL")[1].Params.First("type")).To(Equal("fax"))
	})

	It("clones deeply", func() {
		c := newCard()

		c2 := c.Clone()
		c2.First("tel").Params.Append("type", "home")
		Expect(c.First("tel").Params.Get("type")).To(Equal([]string{"voice"}))
	})

	It("renders back to content lines", func() {
		c := &vcard.Card{Properties: []*vcard.Property{
			prop("version", nil, vcard.Text("4.0")),
			prop("fn", nil, vcard.Text("Jane Doe")),
		}}

		Expect(c.String()).To(Equal("BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane Doe\r\nEND:VCARD\r\n"))
	})
})
