package circulation

import (
	"errors"
	"time"
)

// DateLayout is the persisted text format of a Date.
const DateLayout = "2006-01-02"

const hoursPerDay = 24

// Date is a calendar date without a time-of-day component.
// The zero value represents "no date", e.g. the return date of an outstanding loan.
type Date struct {
	t time.Time
}

// ToDate takes the calendar day of t in t's own location.
func ToDate(t time.Time) Date {
	year, month, day := t.Date()

	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// BuildDate creates a Date from its components.
func BuildDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Join(ErrInvalidDate, err)
	}

	return Date{t: t}, nil
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// String formats d as "YYYY-MM-DD", or an empty string for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}

	return d.t.Format(DateLayout)
}

// DaysUntil returns the number of whole days from d to other, negative if other lies before d.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours()) / hoursPerDay
}

// Before reports whether d lies before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}
