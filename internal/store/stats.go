package store

import (
	"github.com/dailyvibe/dailyvibe/internal/dateutil"
)

// DayMark is one cell of a habit's recent-completion grid.
type DayMark struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// HabitStats summarizes one habit for the stats screen.
type HabitStats struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Color            string    `json:"color"`
	CurrentStreak    int       `json:"currentStreak"`
	LongestStreak    int       `json:"longestStreak"`
	TotalCompletions int       `json:"totalCompletions"`
	Days             []DayMark `json:"days"`
}

// Stats builds the last-N-days completion grid for every habit in the
// user's snapshot, in ascending date order ending today.
func (s *Store) Stats(userID string, days int) []HabitStats {
	habits := s.Habits(userID)

	out := make([]HabitStats, 0, len(habits))
	for _, h := range habits {
		st := HabitStats{
			ID:               h.ID,
			Name:             h.Name,
			Color:            h.Color,
			CurrentStreak:    h.CurrentStreak,
			LongestStreak:    h.LongestStreak,
			TotalCompletions: len(h.CompletedDates),
			Days:             make([]DayMark, 0, days),
		}
		for d := range dateutil.LastNDays(s.clock, days) {
			st.Days = append(st.Days, DayMark{Date: d, Completed: h.CompletedDates.Has(d)})
		}
		out = append(out, st)
	}
	return out
}
