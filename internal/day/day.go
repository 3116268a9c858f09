// Package day provides a calendar date value with no time-of-day or time zone.
// Entries are dated by the day the user made progress, not by an instant, so all
// bucketing and streak arithmetic is done on this type.
package day

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical YYYY-MM-DD representation.
const Layout = "2006-01-02"

// Date represents a date with day-level granularity.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date. Out of range values roll over the same way
// time.Date does, so New(2024, 1, 32) is February 1st.
func New(year int, month time.Month, dayOfMonth int) Date {
	d := Date{year, month, dayOfMonth}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime returns the calendar date of t in t's own location.
func FromTime(t time.Time) Date {
	return New(t.Date())
}

// Parse reads a YYYY-MM-DD string. An RFC3339 timestamp is also accepted and
// contributes the calendar date written in it, ignoring the clock part.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return New(t.Date()), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return New(t.Date()), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
}

// MustParse is Parse for literals in tests and tables.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.time().Format(Layout) }

// Format formats the date with a time layout.
func (d Date) Format(layout string) string { return d.time().Format(layout) }

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// time anchors the date at midnight UTC. UTC has no DST transitions, so the
// difference between two anchors is always a whole number of days.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Add returns the date n days later (earlier when n is negative).
func (d Date) Add(n int) Date { return New(d.y, d.m, d.d+n) }

// AddMonths returns the first day of the month n months away from d's month.
// Clamping to the first avoids Jan 31 + 1 month landing in March.
func (d Date) AddMonths(n int) Date { return New(d.y, d.m+time.Month(n), 1) }

// Sub returns the number of days from x to d.
func (d Date) Sub(x Date) int {
	return int(d.time().Sub(x.time()) / (24 * time.Hour))
}

func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1. Useful with slices.SortFunc.
func (d Date) Compare(x Date) int {
	switch {
	case d.Before(x):
		return -1
	case d.After(x):
		return 1
	default:
		return 0
	}
}

// SameMonth reports whether d and x share year and month.
func (d Date) SameMonth(x Date) bool { return d.y == x.y && d.m == x.m }

// StartOfWeek returns the Sunday on or before d.
func (d Date) StartOfWeek() Date { return d.Add(-int(d.Weekday())) }

// StartOfMonth returns the first day of d's month.
func (d Date) StartOfMonth() Date { return New(d.y, d.m, 1) }

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date { return New(d.y, d.m+1, 0) }

// Between reports whether d lies in [from, to]. A zero bound is open.
func (d Date) Between(from, to Date) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// MarshalText implements encoding.TextMarshaler. The zero Date encodes as "".
func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
