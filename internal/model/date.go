package model

import (
	"fmt"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// Date is a calendar day stored as the number of days since 1970-01-01
// (proleptic Gregorian). Consecutive days differ by exactly 1.
type Date int

// NewDate returns the day index for year, month and day. Out of range
// month/day values are normalized the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return DateFromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateFromTime returns the calendar day of t in t's own location.
func DateFromTime(t time.Time) Date {
	y, m, d := t.Date()
	u := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
	return Date(floorDiv(u, secondsPerDay))
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*secondsPerDay, 0).UTC()
}

func (d Date) AddDays(n int) Date {
	return d + Date(n)
}

func (d Date) String() string {
	return d.Time().Format(time.DateOnly)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	t, err := time.Parse(time.DateOnly, string(b))
	if err != nil {
		return fmt.Errorf("parse date %q: %w", string(b), err)
	}
	*d = DateFromTime(t)
	return nil
}
