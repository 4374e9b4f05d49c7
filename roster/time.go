package roster

import (
	"fmt"
	"time"
)

// =============================================================================
// TIME OF DAY - Date-agnostic wall-clock time (shift start/end times)
// =============================================================================

// TimeOfDay is a time of day with minute precision, independent of any date.
// Stored as minutes since midnight [0, 1440).
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, &ValidationError{Field: "time", Reason: fmt.Sprintf("invalid time %q (use HH:MM)", s)}
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

func (t TimeOfDay) Hour() int    { return int(t) / 60 }
func (t TimeOfDay) Minute() int  { return int(t) % 60 }
func (t TimeOfDay) Minutes() int { return int(t) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// =============================================================================
// DATE - Civil calendar date (work dates, leave ranges)
// =============================================================================

// Date is a day-granularity calendar date, normalized to midnight UTC.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, &ValidationError{Field: "date", Reason: fmt.Sprintf("invalid date %q (use YYYY-MM-DD)", s)}
	}
	return Date{t: t}, nil
}

// DateOf truncates a timestamp to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic and properties
func (d Date) AddDays(n int) Date     { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Weekday() time.Weekday  { return d.t.Weekday() }
func (d Date) IsZero() bool           { return d.t.IsZero() }
func (d Date) Year() int              { return d.t.Year() }
func (d Date) Month() time.Month      { return d.t.Month() }
func (d Date) Day() int               { return d.t.Day() }

// At combines the date with a time of day into a concrete instant.
func (d Date) At(tod TimeOfDay) time.Time {
	return d.t.Add(time.Duration(tod.Minutes()) * time.Minute)
}

func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// DaysBetween returns the number of whole days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// OVERLAP PREDICATE - The single primitive every conflict check builds on
// =============================================================================

// Overlaps reports whether two same-day time intervals share any instant.
// Intervals on different dates never overlap. An interval whose end time is
// not after its start time crosses midnight and its end is pushed to the next
// day. Comparison is half-open: touching endpoints do not overlap.
func Overlaps(dateA Date, startA, endA TimeOfDay, dateB Date, startB, endB TimeOfDay) bool {
	if !dateA.Equal(dateB) {
		return false
	}

	aStart, aEnd := interval(dateA, startA, endA)
	bStart, bEnd := interval(dateB, startB, endB)

	return !(!aEnd.After(bStart) || !aStart.Before(bEnd))
}

// interval resolves a (date, start, end) triple into concrete instants,
// rolling the end over to the next day when the shift crosses midnight.
func interval(d Date, start, end TimeOfDay) (time.Time, time.Time) {
	s := d.At(start)
	e := d.At(end)
	if end <= start {
		e = e.AddDate(0, 0, 1)
	}
	return s, e
}
