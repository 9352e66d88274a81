package validation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateHabitName validates a habit name at the API edge. The data layer
// itself does not enforce length, so legacy records with longer names still
// load.
func ValidateHabitName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if utf8.RuneCountInString(trimmed) > 50 {
		return errors.New("name is too long (max 50 characters)")
	}

	return nil
}
