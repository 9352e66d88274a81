package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dailyvibe/dailyvibe/internal/model"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
)

// HabitRepository is the authoritative per-user habit store. One row is one
// full habit document; Upsert always writes every field, keyed by id, so
// repeated writes of the same record are harmless.
type HabitRepository interface {
	Upsert(ctx context.Context, habit *model.Habit) error
	ByUser(ctx context.Context, userID string) ([]*model.Habit, error)
	ByID(ctx context.Context, userID, habitID string) (*model.Habit, error)
	CountForUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, habitID string) error
	DeleteAllForUser(ctx context.Context, userID string) error
	SeedPlaceholders(ctx context.Context, userID string, habits []*model.Habit) (bool, error)
}

type habitRepository struct {
	db *sqlx.DB
}

func NewHabitRepository(db *sqlx.DB) HabitRepository {
	return &habitRepository{db: db}
}

const upsertHabitQuery = `INSERT INTO habits (id, user_id, name, color, icon, created_at, completed_dates, current_streak, longest_streak)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (id) DO UPDATE SET
	              name = excluded.name,
	              color = excluded.color,
	              icon = excluded.icon,
	              created_at = excluded.created_at,
	              completed_dates = excluded.completed_dates,
	              current_streak = excluded.current_streak,
	              longest_streak = excluded.longest_streak`

func (r *habitRepository) Upsert(ctx context.Context, habit *model.Habit) error {
	_, err := r.db.ExecContext(ctx, upsertHabitQuery,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.Color,
		habit.Icon,
		habit.CreatedAt,
		habit.CompletedDates,
		habit.CurrentStreak,
		habit.LongestStreak,
	)

	return err
}

func (r *habitRepository) ByUser(ctx context.Context, userID string) ([]*model.Habit, error) {
	var habits []*model.Habit
	query := `SELECT * FROM habits WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &habits, query, userID)
	if err != nil {
		return nil, err
	}

	return habits, nil
}

func (r *habitRepository) ByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit := &model.Habit{}
	query := `SELECT * FROM habits WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, habit, query, habitID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrHabitNotFound
	}

	return habit, err
}

func (r *habitRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM habits WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

// Delete is a no-op when the id is unknown. The backend treats deleting a
// missing document the same as deleting an existing one.
func (r *habitRepository) Delete(ctx context.Context, userID, habitID string) error {
	query := `DELETE FROM habits WHERE id = $1 AND user_id = $2`
	_, err := r.db.ExecContext(ctx, query, habitID, userID)
	return err
}

func (r *habitRepository) DeleteAllForUser(ctx context.Context, userID string) error {
	query := `DELETE FROM habits WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

// SeedPlaceholders inserts the starter habits only while the user still has
// zero habits. The empty check and the inserts share one transaction, and
// the inserts themselves skip existing ids, so concurrent empty-snapshot
// notifications cannot create duplicates. Returns whether anything was
// written.
func (r *habitRepository) SeedPlaceholders(ctx context.Context, userID string, habits []*model.Habit) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM habits WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	query := `INSERT INTO habits (id, user_id, name, color, icon, created_at, completed_dates, current_streak, longest_streak)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (id) DO NOTHING`

	for _, h := range habits {
		_, err := tx.ExecContext(ctx, query,
			h.ID, userID, h.Name, h.Color, h.Icon, h.CreatedAt,
			h.CompletedDates, h.CurrentStreak, h.LongestStreak,
		)
		if err != nil {
			return false, fmt.Errorf("failed to seed habit %s: %w", h.ID, err)
		}
	}

	return true, tx.Commit()
}
