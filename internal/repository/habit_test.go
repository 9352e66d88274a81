package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyvibe/dailyvibe/internal/db"
	"github.com/dailyvibe/dailyvibe/internal/model"
)

func testDB(t *testing.T) *HabitTestEnv {
	t.Helper()

	// An in-memory sqlite DB is per-connection; a pooled sqlx.DB would see
	// different databases on different connections. A throwaway file avoids that.
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "habits.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	return &HabitTestEnv{
		Habits:  NewHabitRepository(database),
		Markers: NewMigrationMarkerRepository(database),
	}
}

type HabitTestEnv struct {
	Habits  HabitRepository
	Markers MigrationMarkerRepository
}

func sampleHabit(id, userID string) *model.Habit {
	return &model.Habit{
		ID:             id,
		UserID:         userID,
		Name:           "Read",
		Color:          "#3B82F6",
		CreatedAt:      "2025-01-01",
		CompletedDates: model.NewDateSet("2025-01-01", "2025-01-02"),
		CurrentStreak:  2,
		LongestStreak:  2,
	}
}

func TestUpsertRoundTrip(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	icon := "book"
	habit := sampleHabit("h1", "u1")
	habit.Icon = &icon

	require.NoError(t, env.Habits.Upsert(ctx, habit))

	got, err := env.Habits.ByID(ctx, "u1", "h1")
	require.NoError(t, err)
	assert.Equal(t, habit.Name, got.Name)
	assert.Equal(t, habit.Color, got.Color)
	require.NotNil(t, got.Icon)
	assert.Equal(t, "book", *got.Icon)
	assert.Equal(t, habit.CompletedDates, got.CompletedDates)
	assert.Equal(t, 2, got.LongestStreak)
}

func TestUpsertIsFullRecordWrite(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h1", "u1")))

	// Second write of the same id replaces every field.
	updated := sampleHabit("h1", "u1")
	updated.Name = "Read books"
	updated.CompletedDates = model.NewDateSet("2025-01-03")
	updated.CurrentStreak = 1
	require.NoError(t, env.Habits.Upsert(ctx, updated))

	got, err := env.Habits.ByID(ctx, "u1", "h1")
	require.NoError(t, err)
	assert.Equal(t, "Read books", got.Name)
	assert.Equal(t, model.NewDateSet("2025-01-03"), got.CompletedDates)

	habits, err := env.Habits.ByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, habits, 1, "upsert by id must not duplicate the row")
}

func TestNilIconStoredAsNull(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	habit := sampleHabit("h1", "u1")
	habit.Icon = nil
	require.NoError(t, env.Habits.Upsert(ctx, habit))

	got, err := env.Habits.ByID(ctx, "u1", "h1")
	require.NoError(t, err)
	assert.Nil(t, got.Icon)
}

func TestByUserScoping(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h1", "u1")))
	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h2", "u2")))

	habits, err := env.Habits.ByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, "h1", habits[0].ID)

	_, err = env.Habits.ByID(ctx, "u1", "h2")
	assert.ErrorIs(t, err, ErrHabitNotFound, "another user's habit is invisible")
}

func TestDeleteIdempotent(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h1", "u1")))
	require.NoError(t, env.Habits.Delete(ctx, "u1", "h1"))
	require.NoError(t, env.Habits.Delete(ctx, "u1", "h1"), "deleting a missing habit is a no-op")
	require.NoError(t, env.Habits.Delete(ctx, "u1", "never-existed"))

	count, err := env.Habits.CountForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeleteAllForUser(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h1", "u1")))
	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h2", "u1")))
	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h3", "u2")))

	require.NoError(t, env.Habits.DeleteAllForUser(ctx, "u1"))

	count, err := env.Habits.CountForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = env.Habits.CountForUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "other users are untouched")
}

func TestSeedPlaceholders(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	placeholders := model.Placeholders("u1", "2025-01-03")

	seeded, err := env.Habits.SeedPlaceholders(ctx, "u1", placeholders)
	require.NoError(t, err)
	assert.True(t, seeded)

	habits, err := env.Habits.ByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, habits, len(placeholders))

	// Repeated empty-snapshot notifications must not duplicate the rows.
	seeded, err = env.Habits.SeedPlaceholders(ctx, "u1", model.Placeholders("u1", "2025-01-04"))
	require.NoError(t, err)
	assert.False(t, seeded)

	habits, err = env.Habits.ByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, habits, len(placeholders))
}

func TestSeedPlaceholdersSkippedWhenHabitsExist(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	require.NoError(t, env.Habits.Upsert(ctx, sampleHabit("h1", "u1")))

	seeded, err := env.Habits.SeedPlaceholders(ctx, "u1", model.Placeholders("u1", "2025-01-03"))
	require.NoError(t, err)
	assert.False(t, seeded)

	count, err := env.Habits.CountForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrationMarker(t *testing.T) {
	env := testDB(t)
	ctx := context.Background()

	done, err := env.Markers.Completed(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, env.Markers.MarkCompleted(ctx, "u1"))
	require.NoError(t, env.Markers.MarkCompleted(ctx, "u1"), "marking twice is fine")

	done, err = env.Markers.Completed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = env.Markers.Completed(ctx, "u2")
	require.NoError(t, err)
	assert.False(t, done, "marker is scoped per user")
}
