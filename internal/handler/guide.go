package handler

import (
	"log/slog"
	"net/http"

	"github.com/dailyvibe/dailyvibe/internal/content"
)

type GuideHandler struct {
	guide *content.GuideService
}

func NewGuideHandler(guide *content.GuideService) *GuideHandler {
	return &GuideHandler{
		guide: guide,
	}
}

func (h *GuideHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.guide.Pages()
	if err != nil {
		slog.Error("failed to load guide pages", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load guide")
		return
	}

	writeJSON(w, http.StatusOK, pages)
}

func (h *GuideHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	page, err := h.guide.Page(slug)
	if err != nil {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}

	writeJSON(w, http.StatusOK, page)
}
