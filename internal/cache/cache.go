// Package cache is the local staging store for habits that have not yet
// reached the authoritative database: one serialized JSON array per user,
// fully overwritten on save, fully replaced on load, explicitly clearable.
// The migration process drains it on first authenticated session.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dailyvibe/dailyvibe/internal/model"
)

type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) path(userID string) string {
	return filepath.Join(c.dir, userID+".json")
}

// Load returns the cached habits for userID. A missing file is an empty
// cache, not an error.
func (c *Cache) Load(userID string) ([]*model.Habit, error) {
	data, err := os.ReadFile(c.path(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read habit cache: %w", err)
	}

	var habits []*model.Habit
	err = json.Unmarshal(data, &habits)
	if err != nil {
		return nil, fmt.Errorf("failed to parse habit cache: %w", err)
	}

	return habits, nil
}

// Save overwrites the user's cache with the given habits.
func (c *Cache) Save(userID string, habits []*model.Habit) error {
	err := os.MkdirAll(c.dir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if habits == nil {
		habits = []*model.Habit{}
	}
	data, err := json.MarshalIndent(habits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize habit cache: %w", err)
	}

	err = os.WriteFile(c.path(userID), data, 0600)
	if err != nil {
		return fmt.Errorf("failed to write habit cache: %w", err)
	}

	return nil
}

// Clear removes the user's cache. Clearing an absent cache is a no-op.
func (c *Cache) Clear(userID string) error {
	err := os.Remove(c.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear habit cache: %w", err)
	}
	return nil
}
