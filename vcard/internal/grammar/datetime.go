package grammar

import "github.com/ghettovoice/govcard/internal/constraints"

// Unset marks an absent component of a [DateTime]. Absent components are
// never defaulted to zero.
const Unset = -1

// Offset is a parsed UTC offset: sign is +1 or -1.
type Offset struct {
	Sign   int
	Hour   int
	Minute int
}

// DateTime is a partial date-and-or-time record (RFC 6350 §4.3.4).
// Components that the source form does not carry are [Unset].
type DateTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Zone                 *Offset
}

func newDateTime() DateTime {
	return DateTime{
		Year: Unset, Month: Unset, Day: Unset,
		Hour: Unset, Minute: Unset, Second: Unset,
	}
}

// ParseDateAndOrTime parses the date-and-or-time rule with its truncated
// forms. The alternatives are tried in the documented order, so a full
// year-month-day always wins over a bare year.
func ParseDateAndOrTime[T constraints.Byteseq](s T) (DateTime, error) {
	if len(s) == 0 {
		return newDateTime(), ErrEmptyInput
	}

	b := []byte(s)
	if b[0] == 'T' || b[0] == 't' {
		// standalone time
		dt := newDateTime()
		if err := parseTime(b[1:], &dt); err != nil {
			return newDateTime(), err
		}
		return dt, nil
	}

	if i := indexTimeDesignator(b); i > 0 {
		dt := newDateTime()
		if err := parseDate(b[:i], &dt); err != nil {
			return newDateTime(), err
		}
		if err := parseTime(b[i+1:], &dt); err != nil {
			return newDateTime(), err
		}
		return dt, nil
	}

	dt := newDateTime()
	if err := parseDate(b, &dt); err != nil {
		return newDateTime(), err
	}
	return dt, nil
}

// ParseUTCOffset parses the utc-offset rule: sign, two hour digits and
// optional two minute digits. A colon between hours and minutes is
// tolerated for the quoted TZ parameter form.
func ParseUTCOffset[T constraints.Byteseq](s T) (Offset, error) {
	if len(s) == 0 {
		return Offset{}, ErrEmptyInput
	}

	off := Offset{Sign: 1}
	switch s[0] {
	case '+':
	case '-':
		off.Sign = -1
	default:
		return Offset{}, ErrMalformedInput
	}

	b := []byte(s)[1:]
	if len(b) == 5 && b[2] == ':' {
		b = append(b[:2:2], b[3:]...)
	}
	switch len(b) {
	case 2, 4:
	default:
		return Offset{}, ErrMalformedInput
	}

	var err error
	if off.Hour, err = atoi(b[:2], 23); err != nil {
		return Offset{}, err
	}
	if len(b) == 4 {
		if off.Minute, err = atoi(b[2:], 59); err != nil {
			return Offset{}, err
		}
	}
	return off, nil
}

// indexTimeDesignator returns the index of the "T" separating the date and
// time parts, or -1. Standalone truncated dates contain no letters, so the
// first "T"/"t" is always the designator.
func indexTimeDesignator(b []byte) int {
	for i, c := range b {
		if c == 'T' || c == 't' {
			return i
		}
	}
	return -1
}

// parseDate parses the date rule with truncation: YYYYMMDD, YYYY-MM, YYYY,
// --MMDD, --MM, ---DD. Tried most specific first.
func parseDate(b []byte, dt *DateTime) error {
	var err error
	switch {
	case len(b) == 5 && b[0] == '-' && b[1] == '-' && b[2] == '-':
		dt.Day, err = atoi(b[3:], 31)
		return err
	case len(b) == 6 && b[0] == '-' && b[1] == '-':
		if dt.Month, err = atoi(b[2:4], 12); err != nil {
			return err
		}
		dt.Day, err = atoi(b[4:], 31)
		return err
	case len(b) == 4 && b[0] == '-' && b[1] == '-':
		dt.Month, err = atoi(b[2:], 12)
		return err
	case len(b) == 8:
		if dt.Year, err = atoi(b[:4], 9999); err != nil {
			return err
		}
		if dt.Month, err = atoi(b[4:6], 12); err != nil {
			return err
		}
		dt.Day, err = atoi(b[6:], 31)
		return err
	case len(b) == 7 && b[4] == '-':
		if dt.Year, err = atoi(b[:4], 9999); err != nil {
			return err
		}
		dt.Month, err = atoi(b[5:], 12)
		return err
	case len(b) == 4:
		dt.Year, err = atoi(b, 9999)
		return err
	}
	return ErrMalformedInput
}

// parseTime parses the time rule with truncation: HH, HHMM, HHMMSS, -MMSS,
// --SS, each with an optional zone suffix ("Z" or utc-offset).
func parseTime(b []byte, dt *DateTime) error {
	if len(b) == 0 {
		return ErrMalformedInput
	}

	body, zone := b, []byte(nil)
	for i, c := range b {
		if c == 'Z' || c == 'z' || ((c == '+' || c == '-') && i > 0 && b[i-1] != '-') {
			body, zone = b[:i], b[i:]
			break
		}
	}

	var err error
	switch {
	case len(body) == 4 && body[0] == '-' && body[1] == '-':
		if dt.Second, err = atoi(body[2:], 60); err != nil {
			return err
		}
	case len(body) == 5 && body[0] == '-':
		if dt.Minute, err = atoi(body[1:3], 59); err != nil {
			return err
		}
		if dt.Second, err = atoi(body[3:], 60); err != nil {
			return err
		}
	case len(body) == 2:
		if dt.Hour, err = atoi(body, 23); err != nil {
			return err
		}
	case len(body) == 4:
		if dt.Hour, err = atoi(body[:2], 23); err != nil {
			return err
		}
		if dt.Minute, err = atoi(body[2:], 59); err != nil {
			return err
		}
	case len(body) == 6:
		if dt.Hour, err = atoi(body[:2], 23); err != nil {
			return err
		}
		if dt.Minute, err = atoi(body[2:4], 59); err != nil {
			return err
		}
		if dt.Second, err = atoi(body[4:], 60); err != nil {
			return err
		}
	default:
		return ErrMalformedInput
	}

	if len(zone) == 0 {
		return nil
	}
	if zone[0] == 'Z' || zone[0] == 'z' {
		if len(zone) > 1 {
			return ErrMalformedInput
		}
		dt.Zone = &Offset{Sign: 1}
		return nil
	}
	off, err := ParseUTCOffset(zone)
	if err != nil {
		return err
	}
	dt.Zone = &off
	return nil
}

// atoi converts 1..4 decimal digits, rejecting values above max.
func atoi(b []byte, max int) (int, error) {
	if len(b) == 0 || len(b) > 4 {
		return Unset, ErrMalformedInput
	}
	n := 0
	for _, c := range b {
		if !IsDigitChar(c) {
			return Unset, ErrMalformedInput
		}
		n = n*10 + int(c-'0')
	}
	if n > max {
		return Unset, ErrMalformedInput
	}
	return n, nil
}
