package timeutil

import (
	"errors"
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"

	MinutesPerDay = 24 * 60
)

var (
	ErrInvalidClock = errors.New("invalid HH:MM value")
	ErrInvalidDate  = errors.New("invalid date value")
)

// ParseClock converts a 24h "HH:MM" string into minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" string into midnight of that day in loc.
// A nil loc means UTC.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// MinutesOfDay returns the number of minutes elapsed since midnight of t's day.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Overlaps reports whether the half-open instant ranges [aStart, aEnd) and
// [bStart, bEnd) share any point in time.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// MinutesOverlap is the half-open overlap test on minutes-of-day ranges.
func MinutesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// MinutesContain reports whether [outerStart, outerEnd) fully contains
// [innerStart, innerEnd).
func MinutesContain(outerStart, outerEnd, innerStart, innerEnd int) bool {
	return outerStart <= innerStart && outerEnd >= innerEnd
}

// IsWeekend reports whether w falls on Saturday or Sunday.
func IsWeekend(w time.Weekday) bool {
	return w == time.Saturday || w == time.Sunday
}

// SameDate reports whether a and b fall on the same calendar date in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// DateKey renders t's calendar date in loc as "YYYY-MM-DD".
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// AtMinutes returns the instant `minutes` after midnight of day, in day's location.
func AtMinutes(day time.Time, minutes int) time.Time {
	return StartOfDay(day, day.Location()).Add(time.Duration(minutes) * time.Minute)
}

// ScalePricePerHour scales an hourly price in cents to a duration in minutes,
// rounding half-up to the nearest cent. Inputs are expected to be non-negative.
func ScalePricePerHour(priceCents int64, minutes int) int64 {
	return (priceCents*int64(minutes) + 30) / 60
}
