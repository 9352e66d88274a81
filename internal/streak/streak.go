// Package streak computes the current consecutive-day streak for a habit.
package streak

import (
	"github.com/dailyvibe/dailyvibe/internal/dateutil"
	"github.com/dailyvibe/dailyvibe/internal/model"
)

// Calculate returns the length of the consecutive-day run ending at today or
// yesterday. A streak is only "current" while there was activity within the
// last day: if neither today nor yesterday is in the set, the result is 0.
//
// The walk anchors at today when present, else yesterday, and steps backward
// one calendar day at a time until a day is missing. Entries after the
// anchor cannot extend the count, and set semantics make duplicates
// impossible, so the result is independent of how the input was assembled.
func Calculate(dates model.DateSet, clock dateutil.Clock) int {
	if len(dates) == 0 {
		return 0
	}

	today := dateutil.Today(clock)
	yesterday := dateutil.DaysAgo(clock, 1)

	var anchor string
	switch {
	case dates.Has(today):
		anchor = today
	case dates.Has(yesterday):
		anchor = yesterday
	default:
		return 0
	}

	day, err := dateutil.FromCanonical(anchor)
	if err != nil {
		return 0
	}

	count := 0
	for dates.Has(dateutil.ToCanonical(day)) {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
