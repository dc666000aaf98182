package handlers

import (
	"errors"
	"net/http"

	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/study"
)

type ExamHandler struct {
	svc *study.ExamService
}

func NewExamHandler(svc *study.ExamService) *ExamHandler {
	return &ExamHandler{svc: svc}
}

func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	var in study.ExamInput
	if !decodeBody(w, r, &in) {
		return
	}

	exam, err := h.svc.Create(r.Context(), session.UserID, in)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, exam)
}

func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	exams, err := h.svc.List(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list exams")
		return
	}
	writeJSON(w, http.StatusOK, exams)
}

func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	exam, err := h.svc.GetByID(r.Context(), session.UserID, id)
	if err != nil {
		if errors.Is(err, study.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exam not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load exam")
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in study.ExamInput
	if !decodeBody(w, r, &in) {
		return
	}

	exam, err := h.svc.Update(r.Context(), session.UserID, id, in)
	if err != nil {
		if errors.Is(err, study.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exam not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, exam)
}

func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, study.ErrNotFound) {
			writeError(w, http.StatusNotFound, "exam not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not delete exam")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
