package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/study"
)

type StudySessionHandler struct {
	svc *study.SessionService
}

func NewStudySessionHandler(svc *study.SessionService) *StudySessionHandler {
	return &StudySessionHandler{svc: svc}
}

func (h *StudySessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	var in study.SessionInput
	if !decodeBody(w, r, &in) {
		return
	}

	ss, err := h.svc.Start(r.Context(), session.UserID, in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ss)
}

func (h *StudySessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ss, err := h.svc.Complete(r.Context(), session.UserID, id)
	if err != nil {
		if errors.Is(err, study.ErrNotFound) {
			writeError(w, http.StatusNotFound, "study session not found or already completed")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not complete study session")
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

// List returns the last 30 days of sessions.
func (h *StudySessionHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	since := time.Now().AddDate(0, 0, -30)

	sessions, err := h.svc.List(r.Context(), session.UserID, since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list study sessions")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (h *StudySessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, study.ErrNotFound) {
			writeError(w, http.StatusNotFound, "study session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not delete study session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
