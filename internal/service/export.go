package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dailyvibe/dailyvibe/internal/dateutil"
	"github.com/dailyvibe/dailyvibe/internal/storage"
	"github.com/dailyvibe/dailyvibe/internal/store"
)

var ErrExportDisabled = errors.New("export storage not configured")

// ExportService serializes a user's complete habit set to JSON and uploads
// it to the configured object store (account data takeout).
type ExportService struct {
	habits  *store.Store
	storage storage.Storage
	clock   dateutil.Clock
}

// NewExportService accepts a nil storage, which disables the feature.
func NewExportService(habits *store.Store, st storage.Storage, clock dateutil.Clock) *ExportService {
	return &ExportService{
		habits:  habits,
		storage: st,
		clock:   clock,
	}
}

func (s *ExportService) Enabled() bool {
	return s.storage != nil
}

// Export uploads the snapshot and returns the object key and a temporary
// download URL.
func (s *ExportService) Export(ctx context.Context, userID string) (key, url string, err error) {
	if s.storage == nil {
		return "", "", ErrExportDisabled
	}

	habits := s.habits.Habits(userID)
	data, err := json.MarshalIndent(habits, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("failed to serialize habits: %w", err)
	}

	key = fmt.Sprintf("exports/%s/habits-%s.json", userID, dateutil.Today(s.clock))
	err = s.storage.Save(ctx, key, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("failed to upload export: %w", err)
	}

	url, err = s.storage.PresignedURL(ctx, key)
	if err != nil {
		return "", "", fmt.Errorf("failed to presign export: %w", err)
	}

	return key, url, nil
}
