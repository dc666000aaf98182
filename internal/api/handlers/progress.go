package handlers

import (
	"net/http"

	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/study"
)

type ProgressHandler struct {
	svc *study.ProgressService
}

func NewProgressHandler(svc *study.ProgressService) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// List returns the per-day rows for the recent window.
func (h *ProgressHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	days, err := h.svc.Recent(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load progress")
		return
	}
	if days == nil {
		days = []models.Progress{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	stats, err := h.svc.GetStats(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
