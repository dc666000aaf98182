package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studybuddy/backend/internal/models"
)

// ErrDocumentNotFound is returned by Store.GetOwnedDocument when the document
// does not exist or belongs to another user. The two cases are deliberately
// indistinguishable.
var ErrDocumentNotFound = errors.New("document not found")

// ErrAlreadyAttached is returned by the explicit Attach when the session is
// bound to a different document; rebinding takes a detach plus an attach.
var ErrAlreadyAttached = errors.New("session already has a document attached")

// AttachmentManager governs the session/document relation. A session is
// either Unattached (no document reference) or Attached (references exactly
// one document owned by the session's user).
//
// Transitions:
//   - Unattached -> Attached: a chat turn carries a document ID and the
//     ownership check passes. A failed check is silent; the turn proceeds
//     without document context.
//   - Attached -> Attached (same document): idempotent no-op.
//   - Attached + different document via the chat-turn path: no transition;
//     rebinding requires an explicit detach first.
//   - Attached -> Unattached: explicit Detach, independent of any chat turn.
//     The document itself is never deleted or mutated.
type AttachmentManager struct {
	store Store
}

func NewAttachmentManager(store Store) *AttachmentManager {
	return &AttachmentManager{store: store}
}

// Resolve applies the chat-turn attachment rule and returns the document
// whose extracted text should feed the prompt, or nil for no context.
// The session is mutated in place when a transition happens.
func (m *AttachmentManager) Resolve(ctx context.Context, session *models.ChatSession, requested *uuid.UUID) (*models.Document, error) {
	if session.DocumentID == nil {
		if requested == nil {
			return nil, nil
		}

		doc, err := m.store.GetOwnedDocument(ctx, *requested, session.UserID)
		if err != nil {
			if errors.Is(err, ErrDocumentNotFound) {
				// Ownership check failed: stay Unattached, the turn
				// continues without context.
				slog.Warn("attach refused", "session_id", session.ID, "document_id", *requested)
				return nil, nil
			}
			return nil, err
		}

		if err := m.store.AttachDocument(ctx, session.ID, doc.ID); err != nil {
			return nil, err
		}
		session.DocumentID = &doc.ID
		return doc, nil
	}

	// Already attached: a matching or differing requested ID changes
	// nothing; the bound document supplies the context either way.
	doc, err := m.store.GetOwnedDocument(ctx, *session.DocumentID, session.UserID)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return doc, nil
}

// Attach performs the explicit attach used by the session update endpoint.
// Unlike the chat-turn path, a failed ownership check is surfaced.
func (m *AttachmentManager) Attach(ctx context.Context, session *models.ChatSession, documentID uuid.UUID) error {
	if session.DocumentID != nil {
		if *session.DocumentID == documentID {
			return nil
		}
		return ErrAlreadyAttached
	}

	doc, err := m.store.GetOwnedDocument(ctx, documentID, session.UserID)
	if err != nil {
		return err
	}

	if err := m.store.AttachDocument(ctx, session.ID, doc.ID); err != nil {
		return err
	}
	session.DocumentID = &doc.ID
	return nil
}

// Detach clears the session's document reference. Past messages keep their
// history; the document entity is untouched.
func (m *AttachmentManager) Detach(ctx context.Context, session *models.ChatSession) error {
	if session.DocumentID == nil {
		return nil
	}
	if err := m.store.DetachDocument(ctx, session.ID); err != nil {
		return err
	}
	session.DocumentID = nil
	return nil
}
