package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/studybuddy/backend/internal/config"
	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/models"
)

// ErrForbidden is returned when a user addresses a session they do not own.
var ErrForbidden = errors.New("session belongs to another user")

// ProgressRecorder receives activity counters from the chat path. Failures
// are logged and never fail the turn.
type ProgressRecorder interface {
	RecordQuestionAnswered(ctx context.Context, userID uuid.UUID) error
}

// Service runs chat turns: it resolves the session's document context,
// windows history, composes the prompt, calls the model and persists
// both sides of the exchange.
type Service struct {
	store       Store
	provider    llm.Provider
	attachments *AttachmentManager
	progress    ProgressRecorder

	model       string
	temperature float64
	maxTokens   int
}

// TurnResult is what a completed chat turn hands back to the caller.
type TurnResult struct {
	Session   *models.ChatSession `json:"session"`
	UserMsg   *models.Message     `json:"userMessage"`
	Assistant *models.Message     `json:"assistantMessage"`
}

func NewService(store Store, provider llm.Provider, progress ProgressRecorder, cfg config.LLMConfig) *Service {
	return &Service{
		store:       store,
		provider:    provider,
		attachments: NewAttachmentManager(store),
		progress:    progress,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// SendMessage runs one chat turn. sessionID may be nil, in which case a
// fresh session is created for the user. documentID, when present, is the
// attach-on-first-use request handled by the attachment manager.
func (s *Service) SendMessage(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID, documentID *uuid.UUID, content string) (*TurnResult, error) {
	session, err := s.resolveSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	doc, err := s.attachments.Resolve(ctx, session, documentID)
	if err != nil {
		return nil, err
	}

	history, err := s.store.RecentMessages(ctx, session.ID, HistoryWindow)
	if err != nil {
		return nil, err
	}
	firstTurn := len(history) == 0

	userMsg, err := s.store.InsertMessage(ctx, session.ID, models.RoleUser, content)
	if err != nil {
		return nil, err
	}

	docContext := ""
	if doc != nil {
		docContext = doc.Content
	}
	prompt := ComposePrompt(WindowHistory(history, HistoryWindow), content, docContext)

	resp, err := s.provider.ChatCompletion(ctx, llm.ChatRequest{
		Model:       s.model,
		Messages:    prompt,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	assistant, err := s.store.InsertMessage(ctx, session.ID, models.RoleAssistant, resp.Content)
	if err != nil {
		return nil, err
	}

	if firstTurn {
		s.setTitle(ctx, session, content)
	}
	if err := s.store.TouchSession(ctx, session.ID); err != nil {
		slog.Warn("touch session failed", "session_id", session.ID, "error", err)
	}
	if s.progress != nil {
		if err := s.progress.RecordQuestionAnswered(ctx, userID); err != nil {
			slog.Warn("progress update failed", "user_id", userID, "error", err)
		}
	}

	return &TurnResult{Session: session, UserMsg: userMsg, Assistant: assistant}, nil
}

func (s *Service) resolveSession(ctx context.Context, userID uuid.UUID, sessionID *uuid.UUID) (*models.ChatSession, error) {
	if sessionID == nil {
		return s.store.CreateSession(ctx, userID, nil, DefaultTitle)
	}
	session, err := s.store.GetSession(ctx, *sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

// setTitle derives a short session title from the opening message. Any
// failure leaves the default title in place.
func (s *Service) setTitle(ctx context.Context, session *models.ChatSession, firstMessage string) {
	resp, err := s.provider.ChatCompletion(ctx, llm.ChatRequest{
		Model:       s.model,
		Messages:    ComposeTitlePrompt(firstMessage),
		Temperature: s.temperature,
		MaxTokens:   20,
	})
	title := DefaultTitle
	if err != nil {
		slog.Warn("title generation failed", "session_id", session.ID, "error", err)
	} else if t := strings.TrimSpace(strings.Trim(resp.Content, `"`)); t != "" {
		title = t
	}
	if err := s.store.UpdateTitle(ctx, session.ID, title); err != nil {
		slog.Warn("title update failed", "session_id", session.ID, "error", err)
		return
	}
	session.Title = title
}

// Sessions, messages and lifecycle operations below back the REST surface.

func (s *Service) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	return s.store.ListSessions(ctx, userID)
}

func (s *Service) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.ChatSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *Service) CreateSession(ctx context.Context, userID uuid.UUID, documentID *uuid.UUID, title string) (*models.ChatSession, error) {
	if documentID != nil {
		if _, err := s.store.GetOwnedDocument(ctx, *documentID, userID); err != nil {
			return nil, err
		}
	}
	return s.store.CreateSession(ctx, userID, documentID, title)
}

func (s *Service) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, session.ID)
}

func (s *Service) Messages(ctx context.Context, userID, sessionID uuid.UUID) ([]models.Message, error) {
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	return s.store.ListMessages(ctx, sessionID)
}

// AttachDocument explicitly binds a document to an unattached session.
func (s *Service) AttachDocument(ctx context.Context, userID, sessionID, documentID uuid.UUID) (*models.ChatSession, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.attachments.Attach(ctx, session, documentID); err != nil {
		return nil, err
	}
	return session, nil
}

// DetachDocument returns the session to the unattached state.
func (s *Service) DetachDocument(ctx context.Context, userID, sessionID uuid.UUID) (*models.ChatSession, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.attachments.Detach(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
