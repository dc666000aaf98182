package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studybuddy/backend/internal/models"
)

// ErrSessionNotFound is returned when a session ID resolves to nothing.
var ErrSessionNotFound = errors.New("session not found")

// Store is the persistence collaborator of the context engine. The pgx
// implementation below is the production one; tests use fakes.
type Store interface {
	GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSession, error)
	ListSessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error)
	CreateSession(ctx context.Context, userID uuid.UUID, documentID *uuid.UUID, title string) (*models.ChatSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error
	TouchSession(ctx context.Context, id uuid.UUID) error

	RecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error)
	ListMessages(ctx context.Context, sessionID uuid.UUID) ([]models.Message, error)
	InsertMessage(ctx context.Context, sessionID uuid.UUID, role, content string) (*models.Message, error)

	GetOwnedDocument(ctx context.Context, documentID, userID uuid.UUID) (*models.Document, error)
	AttachDocument(ctx context.Context, sessionID, documentID uuid.UUID) error
	DetachDocument(ctx context.Context, sessionID uuid.UUID) error
}

type pgStore struct {
	db *pgxpool.Pool
}

// NewStore returns the pgx-backed Store.
func NewStore(db *pgxpool.Pool) Store {
	return &pgStore{db: db}
}

func (s *pgStore) GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	var cs models.ChatSession
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, document_id, title, created_at, updated_at
		 FROM chat_sessions WHERE id = $1`, id,
	).Scan(&cs.ID, &cs.UserID, &cs.DocumentID, &cs.Title, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &cs, nil
}

func (s *pgStore) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, document_id, title, created_at, updated_at
		 FROM chat_sessions WHERE user_id = $1 ORDER BY updated_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var cs models.ChatSession
		if err := rows.Scan(&cs.ID, &cs.UserID, &cs.DocumentID, &cs.Title, &cs.CreatedAt, &cs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, cs)
	}
	return sessions, rows.Err()
}

func (s *pgStore) CreateSession(ctx context.Context, userID uuid.UUID, documentID *uuid.UUID, title string) (*models.ChatSession, error) {
	if title == "" {
		title = DefaultTitle
	}
	var cs models.ChatSession
	err := s.db.QueryRow(ctx,
		`INSERT INTO chat_sessions (user_id, document_id, title) VALUES ($1, $2, $3)
		 RETURNING id, user_id, document_id, title, created_at, updated_at`,
		userID, documentID, title,
	).Scan(&cs.ID, &cs.UserID, &cs.DocumentID, &cs.Title, &cs.CreatedAt, &cs.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &cs, nil
}

func (s *pgStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM chat_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *pgStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	_, err := s.db.Exec(ctx, `UPDATE chat_sessions SET title = $1, updated_at = now() WHERE id = $2`, title, id)
	if err != nil {
		return fmt.Errorf("update session title: %w", err)
	}
	return nil
}

func (s *pgStore) TouchSession(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.Exec(ctx, `UPDATE chat_sessions SET updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// RecentMessages returns the most recent limit messages in chronological
// order.
func (s *pgStore) RecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, session_id, role, content, created_at FROM (
			SELECT id, session_id, role, content, created_at
			FROM messages WHERE session_id = $1
			ORDER BY created_at DESC LIMIT $2
		 ) recent ORDER BY created_at ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (s *pgStore) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]models.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM messages WHERE session_id = $1 ORDER BY created_at ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]models.Message, error) {
	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *pgStore) InsertMessage(ctx context.Context, sessionID uuid.UUID, role, content string) (*models.Message, error) {
	var m models.Message
	err := s.db.QueryRow(ctx,
		`INSERT INTO messages (session_id, role, content) VALUES ($1, $2, $3)
		 RETURNING id, session_id, role, content, created_at`,
		sessionID, role, content,
	).Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &m, nil
}

func (s *pgStore) GetOwnedDocument(ctx context.Context, documentID, userID uuid.UUID) (*models.Document, error) {
	var d models.Document
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, title, file_name, file_url, file_size, content, created_at, updated_at
		 FROM documents WHERE id = $1 AND user_id = $2`,
		documentID, userID,
	).Scan(&d.ID, &d.UserID, &d.Title, &d.FileName, &d.FileURL, &d.FileSize, &d.Content, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get owned document: %w", err)
	}
	return &d, nil
}

func (s *pgStore) AttachDocument(ctx context.Context, sessionID, documentID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE chat_sessions SET document_id = $1, updated_at = now() WHERE id = $2`,
		documentID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("attach document: %w", err)
	}
	return nil
}

func (s *pgStore) DetachDocument(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		`UPDATE chat_sessions SET document_id = NULL, updated_at = now() WHERE id = $1`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("detach document: %w", err)
	}
	return nil
}
