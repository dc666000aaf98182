package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/studybuddy/backend/internal/auth"
	"github.com/studybuddy/backend/internal/chat"
	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/models"
)

type ChatHandler struct {
	svc *chat.Service
}

func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatRequest struct {
	SessionID  *uuid.UUID `json:"session_id"`
	DocumentID *uuid.UUID `json:"document_id"`
	Message    string     `json:"message"`
}

// Send runs one chat turn.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := h.svc.SendMessage(r.Context(), session.UserID, req.SessionID, req.DocumentID, req.Message)
	if err != nil {
		h.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	var genErr *llm.GenerationError
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, chat.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, chat.ErrDocumentNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, chat.ErrAlreadyAttached):
		writeError(w, http.StatusConflict, "session already has a document attached")
	case errors.As(err, &genErr):
		writeError(w, http.StatusBadGateway, "assistant is unavailable, please try again")
	default:
		writeError(w, http.StatusInternalServerError, "chat failed")
	}
}

func (h *ChatHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	sessions, err := h.svc.ListSessions(r.Context(), session.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list sessions")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

type createSessionRequest struct {
	DocumentID *uuid.UUID `json:"document_id"`
	Title      string     `json:"title"`
}

func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())

	var req createSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cs, err := h.svc.CreateSession(r.Context(), session.UserID, req.DocumentID, req.Title)
	if err != nil {
		h.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cs)
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	cs, err := h.svc.GetSession(r.Context(), session.UserID, id)
	if err != nil {
		h.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *ChatHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteSession(r.Context(), session.UserID, id); err != nil {
		h.writeChatError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	msgs, err := h.svc.Messages(r.Context(), session.UserID, id)
	if err != nil {
		h.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type attachRequest struct {
	DocumentID *uuid.UUID `json:"document_id"`
}

// UpdateAttachment binds or unbinds the session's document. A null
// document_id detaches.
func (h *ChatHandler) UpdateAttachment(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req attachRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var cs *models.ChatSession
	var err error
	if req.DocumentID == nil {
		cs, err = h.svc.DetachDocument(r.Context(), session.UserID, id)
	} else {
		cs, err = h.svc.AttachDocument(r.Context(), session.UserID, id, *req.DocumentID)
	}
	if err != nil {
		h.writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}
