package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// MigrationMarkerRepository records which users have drained their local
// cache into the authoritative store. The marker is persisted, not held in
// memory, so a migration that failed partway is retried on the next session
// instead of being lost to a process-local flag.
type MigrationMarkerRepository interface {
	Completed(ctx context.Context, userID string) (bool, error)
	MarkCompleted(ctx context.Context, userID string) error
}

type migrationMarkerRepository struct {
	db *sqlx.DB
}

func NewMigrationMarkerRepository(db *sqlx.DB) MigrationMarkerRepository {
	return &migrationMarkerRepository{db: db}
}

func (r *migrationMarkerRepository) Completed(ctx context.Context, userID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM habit_migrations WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *migrationMarkerRepository) MarkCompleted(ctx context.Context, userID string) error {
	query := `INSERT INTO habit_migrations (user_id, completed_at)
	          VALUES ($1, $2)
	          ON CONFLICT (user_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, userID, time.Now())
	return err
}
