package grammar_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ghettovoice/govcard/vcard/internal/grammar"
)

func date(y, mo, d int) grammar.DateTime {
	return grammar.DateTime{
		Year: y, Month: mo, Day: d,
		Hour: grammar.Unset, Minute: grammar.Unset, Second: grammar.Unset,
	}
}

func clock(h, mi, s int, zone *grammar.Offset) grammar.DateTime {
	return grammar.DateTime{
		Year: grammar.Unset, Month: grammar.Unset, Day: grammar.Unset,
		Hour: h, Minute: mi, Second: s,
		Zone: zone,
	}
}

var _ = Describe("DateTime", Label("grammar"), func() {
	DescribeTable("ParseDateAndOrTime()",
		// region
		func(str string, expect grammar.DateTime, expectErr error) {
			dt, err := grammar.ParseDateAndOrTime(str)
			if expectErr == nil {
				Expect(err).ToNot(HaveOccurred())
				Expect(dt).To(Equal(expect))
			} else {
				Expect(err).To(MatchError(expectErr))
			}
		},
		EntryDescription("%q"),
		// region entries
		Entry(nil, "", grammar.DateTime{}, grammar.ErrEmptyInput),
		// complete and truncated dates
		Entry(nil, "19850412", date(1985, 4, 12), nil),
		Entry(nil, "1985-04", date(1985, 4, grammar.Unset), nil),
		Entry(nil, "1985", date(1985, grammar.Unset, grammar.Unset), nil),
		Entry(nil, "--0412", date(grammar.Unset, 4, 12), nil),
		Entry(nil, "--04", date(grammar.Unset, 4, grammar.Unset), nil),
		Entry(nil, "---12", date(grammar.Unset, grammar.Unset, 12), nil),
		// standalone times
		Entry(nil, "T102200", clock(10, 22, 0, nil), nil),
		Entry(nil, "T1022", clock(10, 22, grammar.Unset, nil), nil),
		Entry(nil, "T10", clock(10, grammar.Unset, grammar.Unset, nil), nil),
		Entry(nil, "T-2200", clock(grammar.Unset, 22, 0, nil), nil),
		Entry(nil, "T--00", clock(grammar.Unset, grammar.Unset, 0, nil), nil),
		Entry(nil, "T102200Z", clock(10, 22, 0, &grammar.Offset{Sign: 1}), nil),
		Entry(nil, "T102200-0800",
			clock(10, 22, 0, &grammar.Offset{Sign: -1, Hour: 8}), nil),
		Entry(nil, "T102200+0530",
			clock(10, 22, 0, &grammar.Offset{Sign: 1, Hour: 5, Minute: 30}), nil),
		// combined forms
		Entry(nil, "19961022T140000",
			grammar.DateTime{Year: 1996, Month: 10, Day: 22, Hour: 14, Minute: 0, Second: 0}, nil),
		Entry(nil, "--1022T1400",
			grammar.DateTime{Year: grammar.Unset, Month: 10, Day: 22, Hour: 14, Minute: 0, Second: grammar.Unset}, nil),
		Entry(nil, "---22T14",
			grammar.DateTime{Year: grammar.Unset, Month: grammar.Unset, Day: 22, Hour: 14, Minute: grammar.Unset, Second: grammar.Unset}, nil),
		// malformed
		Entry(nil, "198504", grammar.DateTime{}, grammar.ErrMalformedInput),
		Entry(nil, "19851341", grammar.DateTime{}, grammar.ErrMalformedInput),
		Entry(nil, "1985-04-12", grammar.DateTime{}, grammar.ErrMalformedInput),
		Entry(nil, "--1301", grammar.DateTime{}, grammar.ErrMalformedInput),
		Entry(nil, "T25", grammar.DateTime{}, grammar.ErrMalformedInput),
		Entry(nil, "T102200ZZ", grammar.DateTime{}, grammar.ErrMalformedInput),
		Entry(nil, "T1022+2500", grammar.DateTime{}, grammar.ErrMalformedInput),
		Entry(nil, "not-a-date", grammar.DateTime{}, grammar.ErrMalformedInput),
		// endregion
		// endregion
	)

	DescribeTable("ParseUTCOffset()",
		// region
		func(str string, expect grammar.Offset, expectErr error) {
			off, err := grammar.ParseUTCOffset(str)
			if expectErr == nil {
				Expect(err).ToNot(HaveOccurred())
				Expect(off).To(Equal(expect))
			} else {
				Expect(err).To(MatchError(expectErr))
			}
		},
		EntryDescription("%q"),
		// region entries
		Entry(nil, "", grammar.Offset{}, grammar.ErrEmptyInput),
		Entry(nil, "+05", grammar.Offset{Sign: 1, Hour: 5}, nil),
		Entry(nil, "-05", grammar.Offset{Sign: -1, Hour: 5}, nil),
		Entry(nil, "+0530", grammar.Offset{Sign: 1, Hour: 5, Minute: 30}, nil),
		Entry(nil, "-0800", grammar.Offset{Sign: -1, Hour: 8}, nil),
		Entry(nil, "+05:30", grammar.Offset{Sign: 1, Hour: 5, Minute: 30}, nil),
		Entry(nil, "0530", grammar.Offset{}, grammar.ErrMalformedInput),
		Entry(nil, "+5", grammar.Offset{}, grammar.ErrMalformedInput),
		Entry(nil, "+24", grammar.Offset{}, grammar.ErrMalformedInput),
		Entry(nil, "+0560", grammar.Offset{}, grammar.ErrMalformedInput),
		// endregion
		// endregion
	)
})
