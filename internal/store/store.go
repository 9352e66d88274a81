// Package store owns the in-memory habit snapshot for each authenticated
// user. The authoritative copy lives in the database; the snapshot is
// replaced wholesale whenever a mutation's effect is read back, with every
// record's current streak recomputed locally. Persisted streak values are a
// display cache and are never trusted here.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dailyvibe/dailyvibe/internal/cache"
	"github.com/dailyvibe/dailyvibe/internal/dateutil"
	"github.com/dailyvibe/dailyvibe/internal/feed"
	"github.com/dailyvibe/dailyvibe/internal/model"
	"github.com/dailyvibe/dailyvibe/internal/repository"
	"github.com/dailyvibe/dailyvibe/internal/streak"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrHabitNotFound    = repository.ErrHabitNotFound
)

// UpdateFields carries a partial edit. Nil fields are left untouched; the
// merged record is always persisted in full, so omitting a field can never
// blank it.
type UpdateFields struct {
	Name  *string
	Color *string
	Icon  *string
}

type Store struct {
	habits  repository.HabitRepository
	markers repository.MigrationMarkerRepository
	cache   *cache.Cache
	hub     *feed.Hub
	clock   dateutil.Clock

	mu        sync.Mutex
	snapshots map[string][]*model.Habit
	opened    map[string]bool
}

func New(
	habits repository.HabitRepository,
	markers repository.MigrationMarkerRepository,
	cache *cache.Cache,
	hub *feed.Hub,
	clock dateutil.Clock,
) *Store {
	return &Store{
		habits:    habits,
		markers:   markers,
		cache:     cache,
		hub:       hub,
		clock:     clock,
		snapshots: make(map[string][]*model.Habit),
		opened:    make(map[string]bool),
	}
}

// Open prepares a user's session: drains any staged local cache into the
// authoritative store (at most once, guarded by a persisted per-user
// marker), loads the snapshot, and seeds placeholder habits if the account
// is still empty. Open is idempotent per process; its internal failures are
// logged and degrade to an empty snapshot rather than blocking sign-in.
func (s *Store) Open(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.opened[userID] {
		s.mu.Unlock()
		return nil
	}
	s.opened[userID] = true
	s.mu.Unlock()

	s.migrate(ctx, userID)

	err := s.refresh(ctx, userID, true)
	if err != nil {
		slog.Error("failed to load habit snapshot", "error", err, "user_id", userID)
	}
	return nil
}

// CloseSession forgets a user's snapshot, e.g. on sign-out. The next Open
// rebuilds it.
func (s *Store) CloseSession(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, userID)
	delete(s.opened, userID)
}

// Habits returns the user's current snapshot. It reflects the last feed
// delivery, not any write still in flight.
func (s *Store) Habits(userID string) []*model.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshots[userID]
	out := make([]*model.Habit, 0, len(snap))
	for _, h := range snap {
		out = append(out, h.Clone())
	}
	return out
}

// Subscribe opens a live full-snapshot feed for the user.
func (s *Store) Subscribe(userID string) (<-chan []*model.Habit, func()) {
	return s.hub.Subscribe(userID)
}

// Add creates a habit with an empty completion set and zero streaks,
// created today. An omitted color gets a random palette pick.
func (s *Store) Add(ctx context.Context, userID, name, color string) (*model.Habit, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	if color == "" {
		color = model.RandomColor()
	}

	habit := &model.Habit{
		ID:             uuid.New().String(),
		UserID:         userID,
		Name:           name,
		Color:          color,
		CreatedAt:      dateutil.Today(s.clock),
		CompletedDates: model.DateSet{},
	}

	err := s.habits.Upsert(ctx, habit)
	if err != nil {
		return nil, fmt.Errorf("failed to add habit: %w", err)
	}

	s.echo(ctx, userID)
	return habit, nil
}

// Update merges the given fields into the habit and persists the full
// merged record. The target must exist in the current snapshot.
func (s *Store) Update(ctx context.Context, userID, habitID string, fields UpdateFields) (*model.Habit, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	habit, err := s.fromSnapshot(userID, habitID)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil {
		habit.Name = *fields.Name
	}
	if fields.Color != nil {
		habit.Color = *fields.Color
	}
	if fields.Icon != nil {
		if *fields.Icon == "" {
			habit.Icon = nil
		} else {
			habit.Icon = fields.Icon
		}
	}

	err = s.habits.Upsert(ctx, habit)
	if err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}

	s.echo(ctx, userID)
	return habit, nil
}

// ToggleCompletion flips today's completion for the habit, recomputes the
// current streak from the new set, and raises the longest streak if the new
// current streak exceeds it. Toggling twice restores the original state.
func (s *Store) ToggleCompletion(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	habit, err := s.fromSnapshot(userID, habitID)
	if err != nil {
		return nil, err
	}

	today := dateutil.Today(s.clock)
	if habit.CompletedDates.Has(today) {
		habit.CompletedDates.Remove(today)
	} else {
		habit.CompletedDates.Add(today)
	}

	habit.CurrentStreak = streak.Calculate(habit.CompletedDates, s.clock)
	if habit.CurrentStreak > habit.LongestStreak {
		habit.LongestStreak = habit.CurrentStreak
	}

	err = s.habits.Upsert(ctx, habit)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle completion: %w", err)
	}

	s.echo(ctx, userID)
	return habit, nil
}

// Delete removes the habit from the authoritative store. Deleting an
// unknown id is a no-op, matching the backend's own semantics.
func (s *Store) Delete(ctx context.Context, userID, habitID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	err := s.habits.Delete(ctx, userID, habitID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}

	s.echo(ctx, userID)
	return nil
}

// DeleteAll removes every habit the user owns (account deletion flow).
// The emptied account is not re-seeded with placeholders.
func (s *Store) DeleteAll(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	err := s.habits.DeleteAllForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habits: %w", err)
	}

	s.echo(ctx, userID)
	return nil
}

// ImportCached stages a client's locally cached habits and drains them into
// the authoritative store immediately. Unlike the passive session-open
// migration, failures here propagate: the client asked for the sync and
// should see the result.
func (s *Store) ImportCached(ctx context.Context, userID string, habits []*model.Habit) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	err := s.cache.Save(userID, habits)
	if err != nil {
		return err
	}

	err = s.drain(ctx, userID)
	if err != nil {
		return err
	}

	err = s.markers.MarkCompleted(ctx, userID)
	if err != nil {
		slog.Error("failed to persist migration marker", "error", err, "user_id", userID)
	}

	s.echo(ctx, userID)
	return nil
}

// migrate runs the one-shot cache drain for the session. It never blocks or
// fails sign-in: errors are logged, and because the completion marker is
// only written after a clean drain, a failed attempt is retried on the next
// session. The upserts are keyed by habit id, so a partial drain re-run is
// harmless.
func (s *Store) migrate(ctx context.Context, userID string) {
	done, err := s.markers.Completed(ctx, userID)
	if err != nil {
		slog.Error("failed to check migration marker", "error", err, "user_id", userID)
		return
	}
	if done {
		return
	}

	err = s.drain(ctx, userID)
	if err != nil {
		slog.Error("habit cache migration failed", "error", err, "user_id", userID)
		return
	}

	err = s.markers.MarkCompleted(ctx, userID)
	if err != nil {
		slog.Error("failed to persist migration marker", "error", err, "user_id", userID)
	}
}

// drain upserts every cached habit under the user's partition, then clears
// the cache. An empty cache is a no-op.
func (s *Store) drain(ctx context.Context, userID string) error {
	habits, err := s.cache.Load(userID)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		return nil
	}

	for _, h := range habits {
		h.UserID = userID
		if h.CompletedDates == nil {
			h.CompletedDates = model.DateSet{}
		}
		err := s.habits.Upsert(ctx, h)
		if err != nil {
			return fmt.Errorf("failed to migrate habit %s: %w", h.ID, err)
		}
	}

	return s.cache.Clear(userID)
}

// refresh reads the authoritative set back and routes it through the same
// delivery path a remote change would take: recompute streaks, replace the
// snapshot, publish to subscribers.
func (s *Store) refresh(ctx context.Context, userID string, seedIfEmpty bool) error {
	habits, err := s.habits.ByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	if seedIfEmpty && len(habits) == 0 {
		seeded, err := s.habits.SeedPlaceholders(ctx, userID, model.Placeholders(userID, dateutil.Today(s.clock)))
		if err != nil {
			slog.Error("failed to seed placeholder habits", "error", err, "user_id", userID)
		} else if seeded {
			habits, err = s.habits.ByUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to reload habits: %w", err)
			}
		}
	}

	s.apply(userID, habits)
	return nil
}

// echo is refresh on the mutation path. The write already succeeded; a
// failed read-back only delays the snapshot until the next delivery, so it
// is logged rather than surfaced.
func (s *Store) echo(ctx context.Context, userID string) {
	err := s.refresh(ctx, userID, false)
	if err != nil {
		slog.Error("habit feed refresh failed", "error", err, "user_id", userID)
	}
}

// apply replaces the snapshot with a delivery and fans it out. Streaks are
// recomputed for every record; the persisted value may have been written by
// an older client or against a different "today".
func (s *Store) apply(userID string, habits []*model.Habit) {
	fresh := make([]*model.Habit, 0, len(habits))
	for _, h := range habits {
		c := h.Clone()
		c.CurrentStreak = streak.Calculate(c.CompletedDates, s.clock)
		fresh = append(fresh, c)
	}

	s.mu.Lock()
	s.snapshots[userID] = fresh
	s.mu.Unlock()

	s.hub.Publish(userID, fresh)
}

func (s *Store) fromSnapshot(userID, habitID string) (*model.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, h := range s.snapshots[userID] {
		if h.ID == habitID {
			return h.Clone(), nil
		}
	}
	return nil, ErrHabitNotFound
}
