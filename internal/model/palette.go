package model

import "math/rand/v2"

// Palette is the fixed set of colors offered for new habits. Records
// imported from legacy data may carry any color string; the data layer does
// not reject off-palette values.
var Palette = []string{
	"#3B82F6", // blue
	"#10B981", // green
	"#F59E0B", // amber
	"#EF4444", // red
	"#8B5CF6", // purple
	"#EC4899", // pink
	"#06B6D4", // cyan
	"#F97316", // orange
}

// NeutralColor is used for system placeholder habits.
const NeutralColor = "#3B82F6"

// RandomColor picks a palette color for habits created without one.
func RandomColor() string {
	return Palette[rand.IntN(len(Palette))]
}

// Reserved ids for system placeholder habits seeded into an empty account.
// Regular habit ids are UUIDs, so the prefix cannot collide.
const (
	PlaceholderIDWater = "starter-drink-water"
	PlaceholderIDMove  = "starter-move-your-body"
)

// Placeholders returns fresh placeholder habits for userID, created on day
// createdAt. Streaks start at zero and completions empty, like any new habit.
func Placeholders(userID, createdAt string) []*Habit {
	return []*Habit{
		{
			ID:             PlaceholderIDWater,
			UserID:         userID,
			Name:           "Drink water",
			Color:          NeutralColor,
			CreatedAt:      createdAt,
			CompletedDates: DateSet{},
		},
		{
			ID:             PlaceholderIDMove,
			UserID:         userID,
			Name:           "Move your body",
			Color:          NeutralColor,
			CreatedAt:      createdAt,
			CompletedDates: DateSet{},
		},
	}
}
