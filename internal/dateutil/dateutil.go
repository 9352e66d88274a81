package dateutil

import (
	"fmt"
	"iter"
	"time"
)

// Layout is the canonical date-string format. All completion tracking keys
// on this representation, in local time.
const Layout = "2006-01-02"

// Clock abstracts wall-clock time so streak math and seeding logic can be
// tested against a fixed day.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall-clock Clock used in production.
var System Clock = systemClock{}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Fixed returns a Clock frozen at t.
func Fixed(t time.Time) Clock { return fixedClock{t: t} }

// ToCanonical formats t as a canonical date-string for t's location.
func ToCanonical(t time.Time) string {
	return t.Format(Layout)
}

// FromCanonical parses a canonical date-string at local midnight. Parsing at
// UTC midnight would shift the calendar day for zones west of UTC.
func FromCanonical(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date string %q: %w", s, err)
	}
	return t, nil
}

// Today returns the canonical date-string for the current local day.
func Today(clock Clock) string {
	return ToCanonical(clock.Now())
}

// DaysAgo returns the canonical date-string n days before today.
// n=0 is today, n=1 is yesterday.
func DaysAgo(clock Clock, n int) string {
	return ToCanonical(clock.Now().AddDate(0, 0, -n))
}

// LastNDays yields the last n canonical date-strings in ascending order,
// ending at today. The sequence is finite and restartable.
func LastNDays(clock Clock, n int) iter.Seq[string] {
	return func(yield func(string) bool) {
		now := clock.Now()
		for i := n - 1; i >= 0; i-- {
			if !yield(ToCanonical(now.AddDate(0, 0, -i))) {
				return
			}
		}
	}
}
