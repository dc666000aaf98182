package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/document"
)

const maxUploadBytes = 25 << 20 // 25 MiB

type DocumentHandler struct {
	svc *document.Service
}

func NewDocumentHandler(svc *document.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Upload accepts a multipart form with a "file" part and an optional
// "title" field.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "only PDF files are supported")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	doc, err := h.svc.Upload(r.Context(), document.UploadRequest{
		UserID:   session.UserID,
		Title:    r.FormValue("title"),
		FileName: header.Filename,
		Data:     data,
	})
	if err != nil {
		if errors.Is(err, document.ErrUnreadable) {
			writeError(w, http.StatusUnprocessableEntity, "could not read PDF file")
			return
		}
		writeError(w, http.StatusInternalServerError, "upload failed")
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	docs, err := h.svc.List(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.svc.GetByID(r.Context(), session.UserID, id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load document")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), session.UserID, id); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
