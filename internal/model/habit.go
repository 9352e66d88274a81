package model

// Habit is a named, user-owned tracked activity. One row is one full
// document: writes always persist the complete record, never a partial
// patch, so a concurrent update cannot silently blank a field.
//
// CurrentStreak is a display cache. It is recomputed from CompletedDates on
// every load and every feed delivery; the persisted value is never trusted.
// LongestStreak is monotone: it only moves up, when a toggle produces a new
// current streak above it.
type Habit struct {
	ID             string  `db:"id" json:"id"`
	UserID         string  `db:"user_id" json:"-"`
	Name           string  `db:"name" json:"name"`
	Color          string  `db:"color" json:"color"`
	Icon           *string `db:"icon" json:"icon,omitempty"`
	CreatedAt      string  `db:"created_at" json:"createdAt"`
	CompletedDates DateSet `db:"completed_dates" json:"completedDates"`
	CurrentStreak  int     `db:"current_streak" json:"currentStreak"`
	LongestStreak  int     `db:"longest_streak" json:"longestStreak"`
}

// Clone returns a deep copy, so snapshot consumers can never mutate the
// store's own records through a shared CompletedDates map.
func (h *Habit) Clone() *Habit {
	c := *h
	c.CompletedDates = h.CompletedDates.Clone()
	if h.Icon != nil {
		icon := *h.Icon
		c.Icon = &icon
	}
	return &c
}
