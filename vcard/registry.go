package vcard

import (
	"bytes"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/govcard/internal/errorutil"
	"github.com/ghettovoice/govcard/internal/stringutils"
	"github.com/ghettovoice/govcard/vcard/internal/grammar"
)

// propertySpec binds a property name to its value grammar, parameter
// allow-list and cardinality.
type propertySpec struct {
	// Parse decodes the raw value bytes into a typed Value.
	Parse func(raw []byte, params Values) (Value, error)
	// Params lists the registered parameters the property accepts.
	// A nil map accepts any well-formed parameter.
	Params map[string]bool
	// Min and Max bound the number of instances per card.
	// Max < 0 means unbounded.
	Min, Max int
}

func params(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// extensionProperty serves x-name and unregistered iana-token properties.
var extensionProperty = &propertySpec{
	Parse:  parseText,
	Params: nil,
	Min:    0,
	Max:    -1,
}

// properties is the static vCard 4.0 property registry (RFC 6350 §6).
var properties = map[string]*propertySpec{
	"begin": {Parse: parseCardDelim, Params: params(), Min: 1, Max: 1},
	"end":   {Parse: parseCardDelim, Params: params(), Min: 1, Max: 1},

	"version": {Parse: parseText, Params: params("value"), Min: 1, Max: 1},
	"source": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "altid", "mediatype"),
		Max:    -1,
	},
	"kind": {Parse: parseText, Params: params("value"), Max: 1},
	"xml":  {Parse: parseText, Params: params("value", "altid"), Max: -1},

	"fn": {
		Parse:  parseText,
		Params: params("value", "type", "language", "altid", "pid", "pref"),
		Min:    1, Max: -1,
	},
	"n": {
		Parse:  parseStructuredOf(5),
		Params: params("value", "sort-as", "language", "altid"),
		Max:    1,
	},
	"nickname": {
		Parse:  parseTextList,
		Params: params("value", "type", "language", "altid", "pid", "pref"),
		Max:    -1,
	},
	"photo": {
		Parse:  parseURIValue,
		Params: params("value", "altid", "type", "mediatype", "pref", "pid"),
		Max:    -1,
	},
	"bday": {
		Parse:  parseDateAndOrTimeValue,
		Params: params("value", "altid", "calscale", "language"),
		Max:    1,
	},
	"anniversary": {
		Parse:  parseDateAndOrTimeValue,
		Params: params("value", "altid", "calscale"),
		Max:    1,
	},
	"gender": {Parse: parseGenderValue, Params: params("value"), Max: 1},

	"adr": {
		Parse:  parseStructuredOf(7),
		Params: params("value", "label", "language", "geo", "tz", "altid", "pid", "pref", "type"),
		Max:    -1,
	},

	"tel": {
		Parse:  parseTextOrURI,
		Params: params("value", "type", "pid", "pref", "altid", "mediatype"),
		Max:    -1,
	},
	"email": {
		Parse:  parseTextOrURI,
		Params: params("value", "pid", "pref", "type", "altid"),
		Max:    -1,
	},
	"impp": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},
	"lang": {
		Parse:  parseText,
		Params: params("value", "pid", "pref", "altid", "type"),
		Max:    -1,
	},

	"tz": {
		Parse:  parseTZValue,
		Params: params("value", "altid", "pid", "pref", "type", "mediatype"),
		Max:    -1,
	},
	"geo": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},

	"title": {
		Parse:  parseText,
		Params: params("value", "language", "pid", "pref", "altid", "type"),
		Max:    -1,
	},
	"role": {
		Parse:  parseText,
		Params: params("value", "language", "pid", "pref", "altid", "type"),
		Max:    -1,
	},
	"logo": {
		Parse:  parseURIValue,
		Params: params("value", "language", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},
	"org": {
		Parse:  parseStructuredOf(1),
		Params: params("value", "sort-as", "language", "pid", "pref", "altid", "type"),
		Max:    -1,
	},
	"member": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "altid", "mediatype"),
		Max:    -1,
	},
	"related": {
		Parse:  parseTextOrURI,
		Params: params("value", "pid", "pref", "altid", "type", "mediatype", "language"),
		Max:    -1,
	},

	"categories": {
		Parse:  parseTextList,
		Params: params("value", "pid", "pref", "type", "altid"),
		Max:    -1,
	},
	"note": {
		Parse:  parseText,
		Params: params("value", "language", "pid", "pref", "type", "altid"),
		Max:    -1,
	},
	"prodid": {Parse: parseText, Params: params("value"), Max: 1},
	"rev":    {Parse: parseDateAndOrTimeValue, Params: params("value"), Max: 1},
	"sound": {
		Parse:  parseURIValue,
		Params: params("value", "language", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},
	"uid":          {Parse: parseTextOrURI, Params: params("value"), Max: 1},
	"clientpidmap": {Parse: parseClientPIDMapValue, Params: params(), Max: -1},
	"url": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},

	"key": {
		Parse:  parseTextOrURI,
		Params: params("value", "altid", "pid", "pref", "type", "mediatype"),
		Max:    -1,
	},
	"fburl": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},
	"caladruri": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},
	"caluri": {
		Parse:  parseURIValue,
		Params: params("value", "pid", "pref", "type", "mediatype", "altid"),
		Max:    -1,
	},
}

// region value grammars

func parseText(raw []byte, _ Values) (Value, error) {
	return Text(grammar.Unescape(raw)), nil
}

func parseTextList(raw []byte, _ Values) (Value, error) {
	parts := grammar.SplitUnescaped(raw, ',')
	list := make(TextList, 0, len(parts))
	for _, p := range parts {
		list = append(list, string(grammar.Unescape(p)))
	}
	return list, nil
}

// parseStructuredOf parses semicolon-separated components of
// comma-separated sub-values. Components are padded up to width, extra
// trailing components are kept.
func parseStructuredOf(width int) func(raw []byte, params Values) (Value, error) {
	return func(raw []byte, _ Values) (Value, error) {
		comps := grammar.SplitUnescaped(raw, ';')
		st := make(Structured, 0, max(len(comps), width))
		for _, comp := range comps {
			subs := grammar.SplitUnescaped(comp, ',')
			sv := make([]string, 0, len(subs))
			for _, sub := range subs {
				sv = append(sv, string(grammar.Unescape(sub)))
			}
			st = append(st, sv)
		}
		for len(st) < width {
			st = append(st, []string{""})
		}
		return st, nil
	}
}

func parseURIValue(raw []byte, _ Values) (Value, error) {
	return errtrace.Wrap2(parseURI(raw))
}

func parseURI(raw []byte) (Value, error) {
	i := grammar.SchemeEnd(raw)
	if i < 0 {
		return nil, newMalformedPropertyErr("URI %q", excerpt(raw)) //errtrace:skip
	}
	return URI{
		Scheme: stringutils.LCase(string(raw[:i])),
		Opaque: string(raw[i+1:]),
	}, nil
}

// parseTextOrURI takes the URI branch only when the value opens with a
// valid scheme and colon, otherwise it falls back to free text.
func parseTextOrURI(raw []byte, params Values) (Value, error) {
	if params.First("value") == "text" || grammar.SchemeEnd(raw) < 0 {
		return Text(grammar.Unescape(raw)), nil
	}
	return errtrace.Wrap2(parseURI(raw))
}

// parseDateAndOrTimeValue honors an explicit VALUE=text hint, any other
// value is parsed with the date-and-or-time grammar.
func parseDateAndOrTimeValue(raw []byte, params Values) (Value, error) {
	if params.First("value") == "text" {
		return Text(grammar.Unescape(raw)), nil
	}
	dt, err := grammar.ParseDateAndOrTime(raw)
	if err != nil {
		return nil, errtrace.Wrap(errorutil.NewWrapperError(ErrBadDateTime, "%q: %v", excerpt(raw), err))
	}
	return newDateAndOrTime(dt), nil
}

// parseTZValue tries a UTC offset first, then a URI, then free text.
func parseTZValue(raw []byte, params Values) (Value, error) {
	switch params.First("value") {
	case "uri":
		return errtrace.Wrap2(parseURI(raw))
	case "text":
		return Text(grammar.Unescape(raw)), nil
	}
	if off, err := grammar.ParseUTCOffset(raw); err == nil {
		return newUTCOffset(off), nil
	}
	if grammar.SchemeEnd(raw) >= 0 {
		return errtrace.Wrap2(parseURI(raw))
	}
	return Text(grammar.Unescape(raw)), nil
}

// parseGenderValue parses the sex component with an optional free-text
// identity component.
func parseGenderValue(raw []byte, _ Values) (Value, error) {
	comps := grammar.SplitUnescaped(raw, ';')
	if len(comps) > 2 {
		return nil, newMalformedPropertyErr("gender %q", excerpt(raw)) //errtrace:skip
	}
	sex := stringutils.UCase(string(comps[0]))
	switch sex {
	case "", "M", "F", "O", "N", "U":
	default:
		return nil, newMalformedPropertyErr("gender %q", excerpt(raw)) //errtrace:skip
	}
	st := Structured{{sex}}
	if len(comps) == 2 {
		st = append(st, []string{string(grammar.Unescape(comps[1]))})
	}
	return st, nil
}

// parseClientPIDMapValue parses a source identifier digit followed by the
// source URI.
func parseClientPIDMapValue(raw []byte, _ Values) (Value, error) {
	sep := bytes.IndexByte(raw, ';')
	if sep < 0 {
		return nil, newMalformedPropertyErr("clientpidmap %q", excerpt(raw)) //errtrace:skip
	}
	id, err := strconv.Atoi(string(raw[:sep]))
	if err != nil || id < 1 {
		return nil, newMalformedPropertyErr("clientpidmap %q", excerpt(raw)) //errtrace:skip
	}
	uri, err := parseURI(raw[sep+1:])
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return PIDMap{ID: id, URI: uri.(URI)}, nil
}

func parseCardDelim(raw []byte, _ Values) (Value, error) {
	if !bytes.EqualFold(raw, []byte("VCARD")) {
		return nil, newMalformedPropertyErr("%q: VCARD expected", excerpt(raw)) //errtrace:skip
	}
	return Text("VCARD"), nil
}

// endregion

// checkCardinality verifies per-name instance counts of an assembled
// card against the registry bounds. Grouped and ungrouped instances of
// a name count together.
func checkCardinality(props []*Property) error {
	counts := make(map[string]int, len(props))
	for _, p := range props {
		counts[p.Name]++
	}
	for name, spec := range properties {
		if name == "begin" || name == "end" {
			continue
		}
		n := counts[name]
		if n < spec.Min {
			return errorutil.NewWrapperError(ErrCardinalityViolation,
				"property %q: %d instances, at least %d required", name, n, spec.Min) //errtrace:skip
		}
		if spec.Max >= 0 && n > spec.Max {
			return errorutil.NewWrapperError(ErrCardinalityViolation,
				"property %q: %d instances, at most %d allowed", name, n, spec.Max) //errtrace:skip
		}
	}
	return nil
}
