package handler

import (
	"net/http"
	"strconv"

	"github.com/dailyvibe/dailyvibe/internal/ctxkeys"
	"github.com/dailyvibe/dailyvibe/internal/store"
)

type StatsHandler struct {
	habits      *store.Store
	defaultDays int
}

func NewStatsHandler(habits *store.Store, defaultDays int) *StatsHandler {
	return &StatsHandler{
		habits:      habits,
		defaultDays: defaultDays,
	}
}

// Stats returns each habit's streaks and last-N-days completion grid.
// N defaults from config and is clamped to a year.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	days := h.defaultDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = n
	}
	if days > 366 {
		days = 366
	}

	writeJSON(w, http.StatusOK, h.habits.Stats(userID, days))
}
