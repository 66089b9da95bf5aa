package domain

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the ISO-8601 date form used everywhere dates are serialized.
const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
// The zero value is invalid; optional dates are represented as *Date.
type Date struct {
	Year  int        `json:"-"`
	Month time.Month `json:"-"`
	Day   int        `json:"-"`
}

// Today returns the current date in local time.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf returns the Date on which t falls, in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO-8601 date string (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// String returns the date in ISO-8601 form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time returns the midnight instant of the date in UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is before other.
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// MarshalJSON encodes the date as a quoted ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted ISO-8601 string, or null as the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FormatDate renders an optional date as ISO-8601, or the empty string for nil.
func FormatDate(d *Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
