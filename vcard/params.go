package vcard

import (
	"bytes"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/govcard/internal/errorutil"
	"github.com/ghettovoice/govcard/internal/stringutils"
	"github.com/ghettovoice/govcard/vcard/internal/grammar"
)

// Values maps a parameter key to a list of string values.
// The keys in the map are case-insensitive and stored lowercase.
// A key repeated across several parameter segments accumulates into one
// merged list in segment order, it is never overwritten.
type Values map[string][]string

// Get returns values associated with the given key.
// If there are no values associated with the key, Get returns the empty slice.
func (vals Values) Get(key string) []string { return vals[stringutils.LCase(key)] }

func (vals Values) First(key string) string {
	v := vals[stringutils.LCase(key)]
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (vals Values) Last(key string) string {
	v := vals[stringutils.LCase(key)]
	if len(v) == 0 {
		return ""
	}
	return v[len(v)-1]
}

// Set sets the key to value. It replaces any existing values.
func (vals Values) Set(key, value string) Values {
	vals[stringutils.LCase(key)] = []string{value}
	return vals
}

func (vals Values) Append(key, value string) Values {
	key = stringutils.LCase(key)
	vals[key] = append(vals[key], value)
	return vals
}

// Del deletes the values associated with the key.
func (vals Values) Del(key string) Values {
	delete(vals, stringutils.LCase(key))
	return vals
}

// Has checks whether a given key is in the list.
func (vals Values) Has(key string) bool {
	_, ok := vals[stringutils.LCase(key)]
	return ok
}

// Clone returns copy of the map.
func (vals Values) Clone() Values {
	var vals2 Values
	for k, vs := range vals {
		if vals2 == nil {
			vals2 = make(Values, len(vals))
		}
		vals2[k] = make([]string, len(vs))
		copy(vals2[k], vs)
	}
	return vals2
}

// Registered vCard 4.0 parameter names (RFC 6350 §5).
// A key from this set must be on the owning property's allow-list; any
// other key passes when it has the x-name or iana-token shape.
var knownParams = map[string]bool{
	"language": true, "value": true, "pref": true, "altid": true,
	"pid": true, "type": true, "mediatype": true, "calscale": true,
	"sort-as": true, "geo": true, "tz": true, "label": true,
}

func newBadParameterValueErr(args ...any) error {
	return errorutil.NewWrapperError(ErrBadParameterValue, args...) //errtrace:skip
}

// parseParams parses the ";key=value[,value...]" segments of a content
// line against the owning property's parameter allow-list.
// A nil allowed set accepts any well-formed parameter (extension
// properties).
func parseParams(segs [][]byte, allowed map[string]bool) (Values, error) {
	var vals Values
	for _, seg := range segs {
		eq := bytes.IndexByte(seg, '=')
		if eq < 0 {
			return nil, errtrace.Wrap(newBadParameterValueErr("parameter %q: missing '='", seg))
		}
		key := stringutils.LCase(stringutils.TrimSP(string(seg[:eq])))
		if err := checkParamAllowed(key, allowed); err != nil {
			return nil, errtrace.Wrap(err)
		}
		vs, err := parseParamValue(key, seg[eq+1:])
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		if vals == nil {
			vals = make(Values, len(segs))
		}
		for _, v := range vs {
			vals.Append(key, v)
		}
	}
	return vals, nil
}

func checkParamAllowed(key string, allowed map[string]bool) error {
	switch {
	case !grammar.IsIANAToken(key):
		return errorutil.NewWrapperError(ErrDisallowedParameter, "parameter %q", key) //errtrace:skip
	case allowed == nil || allowed[key]:
		return nil
	case knownParams[key]:
		return errorutil.NewWrapperError(ErrDisallowedParameter, "parameter %q", key) //errtrace:skip
	default:
		// x-name or unregistered iana-token: passes any allow-list
		return nil
	}
}

// parseParamValue applies the parameter kind's own value grammar.
func parseParamValue(key string, raw []byte) ([]string, error) {
	switch key {
	case "pid":
		return errtrace.Wrap2(parsePIDParam(raw))
	case "pref":
		return errtrace.Wrap2(parsePrefParam(raw))
	case "type":
		return errtrace.Wrap2(parseTypeParam(raw))
	case "geo":
		return errtrace.Wrap2(parseGeoParam(raw))
	case "tz":
		return errtrace.Wrap2(parseTZParam(raw))
	case "value", "calscale":
		return errtrace.Wrap2(parseTokenParam(key, raw))
	case "sort-as":
		return errtrace.Wrap2(parseSortAsParam(raw))
	case "label":
		return errtrace.Wrap2(parseLabelParam(raw))
	default:
		// language, altid, mediatype, extensions: generic safe or quoted string
		return errtrace.Wrap2(parseGenericParam(raw))
	}
}

// parsePIDParam parses comma-separated digits["." digits] pairs.
func parsePIDParam(raw []byte) ([]string, error) {
	parts := grammar.SplitUnquoted(raw, ',')
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if !isPIDValue(p) {
			return nil, newBadParameterValueErr("pid %q", p) //errtrace:skip
		}
		out = append(out, string(p))
	}
	return out, nil
}

func isPIDValue(b []byte) bool {
	dot := bytes.IndexByte(b, '.')
	if dot < 0 {
		return isDigits(b)
	}
	return isDigits(b[:dot]) && isDigits(b[dot+1:])
}

func isDigits(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !grammar.IsDigitChar(c) {
			return false
		}
	}
	return true
}

// parsePrefParam parses an integer in [1,100].
func parsePrefParam(raw []byte) ([]string, error) {
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 1 || n > 100 {
		return nil, newBadParameterValueErr("pref %q: integer in [1,100] expected", raw) //errtrace:skip
	}
	return []string{strconv.Itoa(n)}, nil
}

// parseTypeParam parses TYPE tokens. A quoted value is unquoted before
// comma-splitting, so TYPE="voice,home" yields two tokens. Tokens are
// case-normalized to lowercase; any token of the extension shape is kept.
func parseTypeParam(raw []byte) ([]string, error) {
	parts := bytes.Split(grammar.Unquote(raw), []byte{','})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if !grammar.IsIANAToken(p) {
			return nil, newBadParameterValueErr("type %q", p) //errtrace:skip
		}
		out = append(out, stringutils.LCase(string(p)))
	}
	return out, nil
}

// parseGeoParam parses a double-quoted URI.
func parseGeoParam(raw []byte) ([]string, error) {
	if !grammar.IsQuoted(raw) {
		return nil, newBadParameterValueErr("geo %q: quoted URI expected", raw) //errtrace:skip
	}
	v := grammar.Unquote(raw)
	if grammar.SchemeEnd(v) < 0 {
		return nil, newBadParameterValueErr("geo %q: quoted URI expected", raw) //errtrace:skip
	}
	return []string{string(v)}, nil
}

// parseTZParam parses a double-quoted UTC offset, or bare text.
func parseTZParam(raw []byte) ([]string, error) {
	if grammar.IsQuoted(raw) {
		v := grammar.Unquote(raw)
		if _, err := grammar.ParseUTCOffset(v); err != nil {
			return nil, newBadParameterValueErr("tz %q: quoted UTC offset expected", raw) //errtrace:skip
		}
		return []string{string(v)}, nil
	}
	return errtrace.Wrap2(parseGenericParam(raw))
}

func parseTokenParam(key string, raw []byte) ([]string, error) {
	if !grammar.IsIANAToken(raw) {
		return nil, newBadParameterValueErr("%s %q", key, raw) //errtrace:skip
	}
	return []string{stringutils.LCase(string(raw))}, nil
}

// parseSortAsParam parses comma-separated, optionally quoted components.
func parseSortAsParam(raw []byte) ([]string, error) {
	parts := grammar.SplitUnquoted(raw, ',')
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, string(grammar.DecodeParamValue(grammar.Unquote(p))))
	}
	return out, nil
}

// parseLabelParam parses the ADR label: quoted or safe text that may carry
// "\n" line-break escapes.
func parseLabelParam(raw []byte) ([]string, error) {
	v := grammar.Unescape(grammar.DecodeParamValue(grammar.Unquote(raw)))
	return []string{string(v)}, nil
}

// parseGenericParam parses the default safe-string or quoted-string
// grammar with "<U+XXXX>" decoding.
func parseGenericParam(raw []byte) ([]string, error) {
	if grammar.IsQuoted(raw) {
		return []string{string(grammar.DecodeParamValue(grammar.Unquote(raw)))}, nil
	}
	for _, c := range raw {
		if !grammar.IsSafeChar(c) {
			return nil, newBadParameterValueErr("parameter value %q", raw) //errtrace:skip
		}
	}
	return []string{string(grammar.DecodeParamValue(raw))}, nil
}
