package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dailyvibe/dailyvibe/internal/ctxkeys"
	"github.com/dailyvibe/dailyvibe/internal/model"
	"github.com/dailyvibe/dailyvibe/internal/store"
)

type SyncHandler struct {
	habits *store.Store
}

func NewSyncHandler(habits *store.Store) *SyncHandler {
	return &SyncHandler{
		habits: habits,
	}
}

type syncRequest struct {
	Habits []*model.Habit `json:"habits"`
}

// Sync accepts a client's locally cached habits and drains them into the
// authoritative store. Upserts are keyed by habit id, so resubmitting the
// same payload is harmless.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req syncRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for _, habit := range req.Habits {
		if habit.ID == "" {
			writeError(w, http.StatusBadRequest, "habit id is required")
			return
		}
	}

	err = h.habits.ImportCached(r.Context(), userID, req.Habits)
	if err != nil {
		slog.Error("failed to sync habits", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "failed to sync habits")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"migrated": len(req.Habits)})
}
