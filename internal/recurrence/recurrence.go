// Package recurrence expands time-based frequency rules into future due
// instants. All functions are pure; callers supply the clock.
package recurrence

import "time"

type Unit string

const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
)

// ValidRule reports whether unit/value form a usable recurrence rule. An
// invalid rule is a normal "nothing to schedule" state, not an error.
func ValidRule(unit Unit, value int) bool {
	if value <= 0 {
		return false
	}
	switch unit {
	case UnitDays, UnitWeeks, UnitMonths, UnitYears:
		return true
	}
	return false
}

// Expand returns the ordered due instants after start: start+1 period,
// start+2 periods, ... bounded by horizon (inclusive) and max occurrences,
// whichever is reached first. The start instant itself is never a due date.
// Invalid rules yield nil.
//
// Month and year steps are anchored on start's day-of-month and clamped to
// the end of shorter months, so Jan 31 monthly yields Feb 28(29), Mar 31,
// Apr 30 and so on.
func Expand(unit Unit, value int, start, horizon time.Time, max int) []time.Time {
	if !ValidRule(unit, value) || max <= 0 {
		return nil
	}

	var out []time.Time
	for k := 1; len(out) < max; k++ {
		next := advance(start, unit, value*k)
		if next.After(horizon) {
			break
		}
		out = append(out, next)
	}
	return out
}

func advance(t time.Time, unit Unit, n int) time.Time {
	switch unit {
	case UnitDays:
		return t.AddDate(0, 0, n)
	case UnitWeeks:
		return t.AddDate(0, 0, 7*n)
	case UnitMonths:
		return AddMonths(t, n)
	case UnitYears:
		return AddMonths(t, 12*n)
	}
	return t
}

// AddMonths adds n calendar months to t, keeping the day-of-month where the
// target month has it and clamping to the month's last day otherwise. This
// avoids the normalization overflow of time.AddDate (Jan 31 + 1 month = Mar 3).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	anchor := time.Date(year, month, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	anchor = anchor.AddDate(0, n, 0)

	if last := daysIn(anchor.Year(), anchor.Month()); day > last {
		day = last
	}
	return time.Date(anchor.Year(), anchor.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
