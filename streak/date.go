package streak

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates across the API and the
// daily_logs collection.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time component. All streak math runs on
// whole calendar days; keeping timestamps out of this package avoids the
// DST and timezone arithmetic bugs that come with midnight subtraction.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf truncates a time.Time to its calendar date in the time's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current calendar date in local time.
func Today() Date {
	return DateOf(time.Now())
}

func (d Date) String() string {
	return d.toTime().Format(DateLayout)
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return DateOf(d.toTime().AddDate(0, 0, n))
}

func (d Date) Equal(o Date) bool {
	return d == o
}

func (d Date) Before(o Date) bool {
	return DaysBetween(d, o) > 0
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// toTime pins the date to midnight UTC so day arithmetic is exact.
func (d Date) toTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns b minus a in whole calendar days.
func DaysBetween(a, b Date) int {
	return int(b.toTime().Sub(a.toTime()) / (24 * time.Hour))
}
