package vcard_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ghettovoice/govcard/vcard"
)

func lines(ls ...string) string { return strings.Join(ls, "\r\n") + "\r\n" }

func prop(name string, params vcard.Values, val vcard.Value) *vcard.Property {
	return &vcard.Property{
		Name:   name,
		Group:  vcard.DefaultGroup,
		Params: params,
		Value:  val,
	}
}

var _ = Describe("Parser", Label("parser"), func() {
	DescribeTable("parsing",
		// region
		func(in string, expect *vcard.Document, expectErr any) {
			doc, err := vcard.Parse(in)
			if expectErr == nil {
				Expect(err).ToNot(HaveOccurred(), "assert parse error is nil")
				Expect(doc).To(Equal(expect), "assert parsed document is equal to the expected document")
			} else {
				Expect(err).To(MatchError(expectErr.(error)), "assert parse error matches the expected error") //nolint:forcetypeassert
			}
		},
		EntryDescription("%[1]q"),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:John Doe",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("John Doe")),
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Mr. John Q. Public\\, Esq.",
				"N:Public;John;Quinlan;Mr.;Esq.",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("Mr. John Q. Public, Esq.")),
				prop("n", nil, vcard.Structured{
					{"Public"}, {"John"}, {"Quinlan"}, {"Mr."}, {"Esq."},
				}),
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane Doe",
				`TEL;TYPE="voice,home";PREF=1:tel:+1-555-555-5555`,
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("Jane Doe")),
				prop("tel",
					vcard.Values{"type": {"voice", "home"}, "pref": {"1"}},
					vcard.URI{Scheme: "tel", Opaque: "+1-555-555-5555"},
				),
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane Doe",
				"TEL;TYPE=work;TYPE=fax:tel:+1-555-555-0000",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("Jane Doe")),
				prop("tel",
					vcard.Values{"type": {"work", "fax"}},
					vcard.URI{Scheme: "tel", Opaque: "+1-555-555-0000"},
				),
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane Doe",
				"BDAY:--0415",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("Jane Doe")),
				prop("bday", nil, vcard.DateAndOrTime{
					Year: vcard.Unset, Month: 4, Day: 15,
					Hour: vcard.Unset, Minute: vcard.Unset, Second: vcard.Unset,
				}),
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane Doe",
				"BDAY;VALUE=text:circa 1800",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("Jane Doe")),
				prop("bday", vcard.Values{"value": {"text"}}, vcard.Text("circa 1800")),
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane",
				" Doe",
				"NOTE:Line one\\nLine two",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("JaneDoe")),
				prop("note", nil, vcard.Text("Line one\nLine two")),
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane Doe",
				"TZ:-0500",
				"home.TEL:tel:+1-555-555-1234",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("Jane Doe")),
				prop("tz", nil, vcard.UTCOffset{Sign: -1, Hour: 5}),
				{
					Name:  "tel",
					Group: "home",
					Value: vcard.URI{Scheme: "tel", Opaque: "+1-555-555-1234"},
				},
			}}}},
			nil,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane Doe",
				"CLIENTPIDMAP:1;urn:uuid:53e374d9-337e-4727-8803-a1e9c14e0556",
				"END:VCARD",
			),
			&vcard.Document{Cards: []*vcard.Card{{Properties: []*vcard.Property{
				prop("version", nil, vcard.Text("4.0")),
				prop("fn", nil, vcard.Text("Jane Doe")),
				prop("clientpidmap", nil, vcard.PIDMap{
					ID:  1,
					URI: vcard.URI{Scheme: "urn", Opaque: "uuid:53e374d9-337e-4727-8803-a1e9c14e0556"},
				}),
			}}}},
			nil,
		),
		// structural and validation errors
		Entry(nil,
			lines("BEGIN:VCARD", "VERSION:4.0", "NOTHING_HERE", "END:VCARD"),
			nil, vcard.ErrMalformedProperty,
		),
		Entry(nil,
			lines("BEGIN:VCARD", "VERSION:4.0", "END:VCARD"),
			nil, vcard.ErrCardinalityViolation,
		),
		Entry(nil,
			lines(
				"BEGIN:VCARD",
				"VERSION:4.0",
				"FN:Jane Doe",
				"UID:urn:uuid:aaaa",
				"UID:urn:uuid:bbbb",
				"END:VCARD",
			),
			nil, vcard.ErrCardinalityViolation,
		),
		Entry(nil,
			lines("BEGIN:VCARD", "VERSION:3.0", "FN:Jane Doe", "END:VCARD"),
			nil, vcard.ErrBadVersion,
		),
		Entry(nil,
			lines("BEGIN:VCARD", "FN:Jane Doe", "VERSION:4.0", "END:VCARD"),
			nil, vcard.ErrBadVersion,
		),
		Entry(nil,
			lines("BEGIN:VCARD", "VERSION:4.0", "FN:Jane Doe"),
			nil, vcard.ErrUnterminatedCard,
		),
		Entry(nil,
			lines("FN:Jane Doe"),
			nil, vcard.ErrMalformedProperty,
		),
		Entry(nil,
			lines("BEGIN:VCARD", "VERSION:4.0", `FN;GEO="geo:37.4,-122.1":Jane`, "END:VCARD"),
			nil, vcard.ErrDisallowedParameter,
		),
		Entry(nil,
			lines("BEGIN:VCARD", "VERSION:4.0", "FN;PREF=200:Jane Doe", "END:VCARD"),
			nil, vcard.ErrBadParameterValue,
		),
		Entry(nil,
			lines("BEGIN:VCARD", "VERSION:4.0", "FN:Jane Doe", "BDAY:04-15", "END:VCARD"),
			nil, vcard.ErrBadDateTime,
		),
	)

	It("reports the logical line and state of the failure", func() {
		in := lines("BEGIN:VCARD", "VERSION:4.0", "NOTHING_HERE", "END:VCARD")

		_, err := vcard.Parse(in)
		Expect(err).To(HaveOccurred())

		var perr *vcard.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Line).To(Equal(3))
		Expect(perr.State).To(Equal(vcard.ParseStateProps))
		Expect(perr.Buf).To(Equal([]byte("NOTHING_HERE")))
		Expect(perr.Grammar()).To(BeFalse())
	})

	It("bounds the error excerpt", func() {
		name := strings.Repeat("A_", 40)
		in := lines("BEGIN:VCARD", "VERSION:4.0", name+":x", "END:VCARD")

		_, err := vcard.Parse(in)
		Expect(err).To(HaveOccurred())

		var perr *vcard.ParseError
		Expect(errors.As(err, &perr)).To(BeTrue())
		Expect(perr.Buf).To(HaveLen(32))
	})

	It("enforces the configured line bound", func() {
		p := &vcard.DefaultParser{MaxLineLen: 16}
		in := lines("BEGIN:VCARD", "VERSION:4.0", "NOTE:"+strings.Repeat("x", 64), "FN:J", "END:VCARD")

		_, err := p.Parse([]byte(in))
		Expect(err).To(MatchError(vcard.ErrMalformedProperty))
	})

	It("parses several cards from one input", func() {
		in := lines(
			"BEGIN:VCARD", "VERSION:4.0", "FN:Jane Doe", "END:VCARD",
			"",
			"BEGIN:VCARD", "VERSION:4.0", "FN:John Doe", "END:VCARD",
		)

		doc, err := vcard.Parse(in)
		Expect(err).ToNot(HaveOccurred())
		Expect(doc.Cards).To(HaveLen(2))
		Expect(doc.Cards[0].First("fn").Value).To(Equal(vcard.Text("Jane Doe")))
		Expect(doc.Cards[1].First("fn").Value).To(Equal(vcard.Text("John Doe")))
	})

	Describe("stream parsing", func() {
		It("yields cards one by one", func() {
			in := lines(
				"BEGIN:VCARD", "VERSION:4.0", "FN:Jane Doe", "END:VCARD",
				"BEGIN:VCARD", "VERSION:4.0", "FN:John Doe", "END:VCARD",
			)

			var cards []*vcard.Card
			for card, err := range vcard.ParseStream(strings.NewReader(in)).Cards() {
				Expect(err).ToNot(HaveOccurred())
				cards = append(cards, card)
			}
			Expect(cards).To(HaveLen(2))
			Expect(cards[0].First("fn").Value).To(Equal(vcard.Text("Jane Doe")))
			Expect(cards[1].First("fn").Value).To(Equal(vcard.Text("John Doe")))
		})

		It("unfolds lines across reads", func() {
			in := lines("BEGIN:VCARD", "VERSION:4.0", "FN:Jane", " Doe", "END:VCARD")

			var cards []*vcard.Card
			for card, err := range vcard.ParseStream(strings.NewReader(in)).Cards() {
				Expect(err).ToNot(HaveOccurred())
				cards = append(cards, card)
			}
			Expect(cards).To(HaveLen(1))
			Expect(cards[0].First("fn").Value).To(Equal(vcard.Text("JaneDoe")))
		})

		It("reports an unterminated trailing card", func() {
			in := lines("BEGIN:VCARD", "VERSION:4.0", "FN:Jane Doe")

			var errs []error
			for _, err := range vcard.ParseStream(strings.NewReader(in)).Cards() {
				errs = append(errs, err)
			}
			Expect(errs).To(HaveLen(1))
			Expect(errs[0]).To(MatchError(vcard.ErrUnterminatedCard))
		})

		It("stops on the first malformed line", func() {
			in := lines(
				"BEGIN:VCARD", "VERSION:4.0", "FN:Jane Doe", "END:VCARD",
				"BEGIN:VCARD", "VERSION:4.0", "NOTHING_HERE", "END:VCARD",
			)

			var (
				cards []*vcard.Card
				errs  []error
			)
			for card, err := range vcard.ParseStream(strings.NewReader(in)).Cards() {
				if err != nil {
					errs = append(errs, err)
					continue
				}
				cards = append(cards, card)
			}
			Expect(cards).To(HaveLen(1))
			Expect(errs).To(HaveLen(1))
			Expect(errs[0]).To(MatchError(vcard.ErrMalformedProperty))
		})
	})
})
