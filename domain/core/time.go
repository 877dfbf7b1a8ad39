package core

import (
	"time"
)

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Before returns true if t is before u
func (t Timestamp) Before(u Timestamp) bool {
	return time.Time(t).Before(time.Time(u))
}

// After returns true if t is after u
func (t Timestamp) After(u Timestamp) bool {
	return time.Time(t).After(time.Time(u))
}

// Day returns the calendar day the timestamp falls on
func (t Timestamp) Day() Day {
	return NewDay(time.Time(t))
}

// JSON marshaling for Timestamp
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var tm time.Time
	if err := tm.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(tm)
	return nil
}

// Day is a calendar date (UTC midnight). The causality lifecycle reasons in
// whole calendar days: resolution and expiry horizons compare days, not clock
// durations, so a 23:50 action and a 00:10 snapshot still land a day apart.
type Day struct {
	t time.Time
}

// NewDay truncates a time.Time to its calendar date
func NewDay(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return NewDay(t), nil
}

// Time returns the day as UTC midnight
func (d Day) Time() time.Time { return d.t }

// IsZero checks if the day is unset
func (d Day) IsZero() bool { return d.t.IsZero() }

// AddDays returns the day shifted by n calendar days
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// Before returns true if d is an earlier date than u
func (d Day) Before(u Day) bool { return d.t.Before(u.t) }

// After returns true if d is a later date than u
func (d Day) After(u Day) bool { return d.t.After(u.t) }

// Equal returns true if both fall on the same date
func (d Day) Equal(u Day) bool { return d.t.Equal(u.t) }

// DaysUntil returns the signed number of calendar days from d to u
func (d Day) DaysUntil(u Day) int {
	return int(u.t.Sub(d.t).Hours() / 24)
}

// String formats as YYYY-MM-DD
func (d Day) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON encodes the day as a YYYY-MM-DD string
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *Day) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}
