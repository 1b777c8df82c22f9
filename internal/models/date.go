package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar format used everywhere a date is displayed
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when decoding a date from text
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2 Jan 2006",
}

// Date is a calendar value as stored by the record-keeping application.
// Values that could not be parsed keep their raw text so nothing entered
// by a clerk is lost; such a value has no position on the timeline.
// The zero Date means "no date recorded".
type Date struct {
	t   time.Time
	raw string
}

// NewDate returns the date for the given calendar day (UTC)
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime wraps a time.Time. The zero time yields the zero Date.
func DateFromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return Date{t: t.UTC()}
}

// ParseDate decodes text into a Date. It never fails: text that matches no
// known layout is kept verbatim. Timestamps with an offset are held in UTC,
// so ordering and the printed calendar day always agree.
func ParseDate(text string) Date {
	text = strings.TrimSpace(text)
	if text == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return DateFromTime(t)
		}
	}
	return Date{raw: text}
}

// IsZero reports whether no date was recorded
func (d Date) IsZero() bool {
	return d.t.IsZero() && d.raw == ""
}

// Time returns the parsed instant and whether the date sits on the timeline
func (d Date) Time() (time.Time, bool) {
	if d.t.IsZero() {
		return time.Time{}, false
	}
	return d.t, true
}

// Format renders the date as YYYY-MM-DD. It fails for values that were
// recorded but could not be parsed.
func (d Date) Format() (string, error) {
	if d.t.IsZero() {
		if d.raw != "" {
			return "", fmt.Errorf("unparseable date %q", d.raw)
		}
		return "", fmt.Errorf("date is not set")
	}
	return d.t.Format(DateLayout), nil
}

// String returns the default string form: the formatted date, the raw text
// for unparseable values, or "" when unset.
func (d Date) String() string {
	if s, err := d.Format(); err == nil {
		return s
	}
	return d.raw
}

// After reports whether d is strictly later than other. Dates without a
// timeline position compare as the minimum possible date.
func (d Date) After(other Date) bool {
	a, okA := d.Time()
	b, okB := other.Time()
	switch {
	case !okA:
		return false
	case !okB:
		return true
	default:
		return a.After(b)
	}
}

// MarshalText implements encoding.TextMarshaler
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler; used by the JSON,
// YAML and TOML decoders alike.
func (d *Date) UnmarshalText(text []byte) error {
	*d = ParseDate(string(text))
	return nil
}
