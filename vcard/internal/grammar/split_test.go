package grammar_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ghettovoice/govcard/vcard/internal/grammar"
)

var _ = Describe("Splitting", Label("grammar"), func() {
	DescribeTable("SplitUnescaped()",
		// region
		func(str string, sep byte, expect []string) {
			Expect(grammar.SplitUnescaped(str, sep)).To(Equal(expect))
		},
		EntryDescription(`should split %q on %q into %v`),
		// region entries
		Entry(nil, "", byte(';'), []string{""}),
		Entry(nil, "a;b;c", byte(';'), []string{"a", "b", "c"}),
		Entry(nil, `a\;b;c`, byte(';'), []string{`a\;b`, "c"}),
		Entry(nil, `a\\;b`, byte(';'), []string{`a\\`, "b"}),
		Entry(nil, "a;;b", byte(';'), []string{"a", "", "b"}),
		Entry(nil, ";a;", byte(';'), []string{"", "a", ""}),
		Entry(nil, `x\,y,z`, byte(','), []string{`x\,y`, "z"}),
		// endregion
		// endregion
	)

	DescribeTable("SplitUnquoted()",
		// region
		func(str string, sep byte, expect []string) {
			Expect(grammar.SplitUnquoted(str, sep)).To(Equal(expect))
		},
		EntryDescription(`should split %q on %q into %v`),
		// region entries
		Entry(nil, "", byte(';'), []string{""}),
		Entry(nil, "a;b", byte(';'), []string{"a", "b"}),
		Entry(nil, `a="x;y";b`, byte(';'), []string{`a="x;y"`, "b"}),
		Entry(nil, `TYPE="a,b",c`, byte(','), []string{`TYPE="a,b"`, "c"}),
		// endregion
		// endregion
	)

	DescribeTable("IndexUnquoted()",
		// region
		func(str string, c byte, expect int) {
			Expect(grammar.IndexUnquoted(str, c)).To(Equal(expect))
		},
		EntryDescription(`should find %q in %q at %d`),
		// region entries
		Entry(nil, "", byte(':'), -1),
		Entry(nil, "a:b", byte(':'), 1),
		Entry(nil, `GEO;X="geo:1,2":v`, byte(':'), 15),
		Entry(nil, `"a:b`, byte(':'), -1),
		// endregion
		// endregion
	)
})
