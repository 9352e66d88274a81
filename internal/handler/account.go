package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dailyvibe/dailyvibe/internal/ctxkeys"
	"github.com/dailyvibe/dailyvibe/internal/service"
	"github.com/dailyvibe/dailyvibe/internal/store"
)

type AccountHandler struct {
	habits *store.Store
	export *service.ExportService
}

func NewAccountHandler(habits *store.Store, export *service.ExportService) *AccountHandler {
	return &AccountHandler{
		habits: habits,
		export: export,
	}
}

// DeleteAllHabits wipes every habit the user owns, as part of the account
// deletion flow. The identity record itself is the identity service's
// problem, not ours.
func (h *AccountHandler) DeleteAllHabits(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.habits.DeleteAll(r.Context(), userID)
	if err != nil {
		slog.Error("failed to delete all habits", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "failed to delete habits")
		return
	}

	h.habits.CloseSession(userID)
	w.WriteHeader(http.StatusNoContent)
}

// Export uploads the user's habit data as JSON and returns a download link.
func (h *AccountHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	key, url, err := h.export.Export(r.Context(), userID)
	if errors.Is(err, service.ErrExportDisabled) {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	if err != nil {
		slog.Error("failed to export habits", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "failed to export habits")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}
