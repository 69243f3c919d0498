package task

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Date is a calendar date in YYYY-MM-DD form. The zero value means unset.
// The fixed-width layout makes string comparison chronological.
type Date string

// ParseDate validates s as a calendar date. The empty string is accepted
// and yields the unset Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date(s), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(dateLayout))
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d == ""
}

// Before reports whether d is strictly earlier than other. Unset dates are
// never before anything.
func (d Date) Before(other Date) bool {
	return d != "" && other != "" && d < other
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d != "" && other != "" && d > other
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

// String returns the date text.
func (d Date) String() string {
	return string(d)
}

// TimeOfDay is a wall-clock time in HH:MM form. The zero value means unset.
type TimeOfDay string

// ParseTimeOfDay validates s as HH:MM. The empty string yields the unset value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return "", fmt.Errorf("parse time %q: %w", s, err)
	}
	return TimeOfDay(s), nil
}

// IsZero reports whether the time is unset.
func (t TimeOfDay) IsZero() bool {
	return t == ""
}

// Minutes returns minutes since midnight, or -1 when unset or malformed.
func (t TimeOfDay) Minutes() int {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}
