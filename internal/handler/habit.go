package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dailyvibe/dailyvibe/internal/ctxkeys"
	"github.com/dailyvibe/dailyvibe/internal/store"
	"github.com/dailyvibe/dailyvibe/internal/validation"
)

type HabitHandler struct {
	habits *store.Store
}

func NewHabitHandler(habits *store.Store) *HabitHandler {
	return &HabitHandler{
		habits: habits,
	}
}

// List returns the user's current habit snapshot.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	writeJSON(w, http.StatusOK, h.habits.Habits(userID))
}

type createHabitRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	var req createHabitRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = validation.ValidateHabitName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	habit, err := h.habits.Add(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		slog.Error("failed to add habit", "error", err, "user_id", userID)
		writeError(w, http.StatusBadGateway, "failed to add habit")
		return
	}

	writeJSON(w, http.StatusCreated, habit)
}

type updateHabitRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	habitID := r.PathValue("id")

	var req updateHabitRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name != nil {
		err = validation.ValidateHabitName(*req.Name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	habit, err := h.habits.Update(r.Context(), userID, habitID, store.UpdateFields{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if errors.Is(err, store.ErrHabitNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		slog.Error("failed to update habit", "error", err, "user_id", userID, "habit_id", habitID)
		writeError(w, http.StatusBadGateway, "failed to update habit")
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	habitID := r.PathValue("id")

	err := h.habits.Delete(r.Context(), userID, habitID)
	if err != nil {
		slog.Error("failed to delete habit", "error", err, "user_id", userID, "habit_id", habitID)
		writeError(w, http.StatusBadGateway, "failed to delete habit")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *HabitHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	habitID := r.PathValue("id")

	habit, err := h.habits.ToggleCompletion(r.Context(), userID, habitID)
	if errors.Is(err, store.ErrHabitNotFound) {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		slog.Error("failed to toggle habit", "error", err, "user_id", userID, "habit_id", habitID)
		writeError(w, http.StatusBadGateway, "failed to toggle habit")
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

// Stream pushes the full habit set to the client as a server-sent event on
// every change, starting with the current snapshot.
func (h *HabitHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := h.habits.Subscribe(userID)
	defer cancel()

	send := func(habits any) bool {
		data, err := json.Marshal(habits)
		if err != nil {
			slog.Error("failed to encode snapshot event", "error", err, "user_id", userID)
			return false
		}
		_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
		if err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(h.habits.Habits(userID)) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case habits, ok := <-ch:
			if !ok {
				return
			}
			if !send(habits) {
				return
			}
		}
	}
}
