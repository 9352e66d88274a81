package streak

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dailyvibe/dailyvibe/internal/dateutil"
	"github.com/dailyvibe/dailyvibe/internal/model"
)

// jan3 fixes "today" at 2025-01-03 for every scenario below.
var jan3 = dateutil.Fixed(time.Date(2025, 1, 3, 10, 0, 0, 0, time.Local))

func TestCalculate(t *testing.T) {
	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{
			name:  "empty set",
			dates: nil,
			want:  0,
		},
		{
			name:  "no activity within the last day",
			dates: []string{"2024-12-28", "2024-12-29", "2024-12-30"},
			want:  0,
		},
		{
			name:  "single completion today",
			dates: []string{"2025-01-03"},
			want:  1,
		},
		{
			name:  "single completion yesterday",
			dates: []string{"2025-01-02"},
			want:  1,
		},
		{
			name:  "run ending yesterday anchors at yesterday",
			dates: []string{"2025-01-01", "2025-01-02"},
			want:  2,
		},
		{
			name:  "three day run through today",
			dates: []string{"2025-01-01", "2025-01-02", "2025-01-03"},
			want:  3,
		},
		{
			name:  "gap before the run does not extend it",
			dates: []string{"2024-12-30", "2025-01-02", "2025-01-03"},
			want:  2,
		},
		{
			name:  "run crosses the month boundary",
			dates: []string{"2024-12-31", "2025-01-01", "2025-01-02", "2025-01-03"},
			want:  4,
		},
		{
			name:  "dates after the anchor are ignored",
			dates: []string{"2025-01-02", "2025-01-10"},
			want:  1,
		},
		{
			name:  "duplicates cannot double count",
			dates: []string{"2025-01-03", "2025-01-03", "2025-01-02"},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(model.NewDateSet(tt.dates...), jan3)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateFullRuns(t *testing.T) {
	// n consecutive days ending today always score n.
	for n := 0; n <= 40; n++ {
		var dates []string
		for i := 0; i < n; i++ {
			dates = append(dates, dateutil.DaysAgo(jan3, i))
		}
		assert.Equal(t, n, Calculate(model.NewDateSet(dates...), jan3), fmt.Sprintf("run of %d days", n))
	}
}

func TestCalculateDeterministic(t *testing.T) {
	dates := model.NewDateSet("2025-01-01", "2025-01-02", "2025-01-03", "2024-12-25")
	first := Calculate(dates, jan3)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Calculate(dates, jan3))
	}
}
