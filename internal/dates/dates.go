// Package dates resolves the calendar periods the match-filtering UIs offer
// into closed day intervals.
package dates

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Periods accepted by Resolve.
const (
	PeriodToday  = "today"
	PeriodWeek   = "week"
	PeriodMonth  = "month"
	PeriodCustom = "custom"
	PeriodAll    = "all"
)

// Range is a closed interval of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the given day falls inside the range.
func (r Range) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Resolver turns period tags into date ranges relative to the injected clock.
type Resolver struct {
	clock clockwork.Clock
}

// NewResolver creates a Resolver. Tests pass a fake clock.
func NewResolver(clock clockwork.Clock) *Resolver {
	return &Resolver{clock: clock}
}

// Resolve returns the date range for a period selection, or nil when the
// period is "all" (no filter), unknown, or "custom" without both bounds.
func (r *Resolver) Resolve(period string, customStart, customEnd *time.Time) *Range {
	today := Day(r.clock.Now())

	switch period {
	case PeriodToday:
		return &Range{Start: today, End: today}
	case PeriodWeek:
		return &Range{Start: StartOfWeek(today), End: today}
	case PeriodMonth:
		return &Range{Start: StartOfMonth(today), End: today}
	case PeriodCustom:
		if customStart == nil || customEnd == nil {
			return nil
		}
		return &Range{Start: Day(*customStart), End: Day(*customEnd)}
	default:
		return nil
	}
}

// StartOfWeek returns the Monday of the week containing date.
func StartOfWeek(date time.Time) time.Time {
	d := Day(date)
	daysToMonday := int(d.Weekday()) - 1
	if d.Weekday() == time.Sunday {
		daysToMonday = 6
	}
	return d.AddDate(0, 0, -daysToMonday)
}

// StartOfMonth returns the first day of the month containing date.
func StartOfMonth(date time.Time) time.Time {
	d := Day(date)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
