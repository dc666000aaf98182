package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studybuddy/backend/internal/models"
)

// SessionService tracks timed study sessions. Completing a session
// feeds its duration into the progress counters.
type SessionService struct {
	db       *pgxpool.Pool
	progress *ProgressService
}

func NewSessionService(db *pgxpool.Pool, progress *ProgressService) *SessionService {
	return &SessionService{db: db, progress: progress}
}

type SessionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	FocusMode   bool   `json:"focus_mode"`
}

// Start opens a new session with start_time = now.
func (s *SessionService) Start(ctx context.Context, userID uuid.UUID, in SessionInput) (*models.StudySession, error) {
	if in.Title == "" {
		return nil, errors.New("title is required")
	}
	var ss models.StudySession
	err := s.db.QueryRow(ctx,
		`INSERT INTO study_sessions (user_id, title, description, focus_mode)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, title, description, start_time, end_time, duration, focus_mode, completed, created_at`,
		userID, in.Title, in.Description, in.FocusMode,
	).Scan(&ss.ID, &ss.UserID, &ss.Title, &ss.Description, &ss.StartTime, &ss.EndTime, &ss.Duration, &ss.FocusMode, &ss.Completed, &ss.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("start study session: %w", err)
	}
	return &ss, nil
}

// Complete closes an open session, computes its duration in minutes and
// records the time against today's progress.
func (s *SessionService) Complete(ctx context.Context, userID, id uuid.UUID) (*models.StudySession, error) {
	var ss models.StudySession
	err := s.db.QueryRow(ctx,
		`UPDATE study_sessions
		 SET end_time = now(), completed = true,
		     duration = GREATEST(0, EXTRACT(EPOCH FROM (now() - start_time)) / 60)::int
		 WHERE id = $1 AND user_id = $2 AND completed = false
		 RETURNING id, user_id, title, description, start_time, end_time, duration, focus_mode, completed, created_at`,
		id, userID,
	).Scan(&ss.ID, &ss.UserID, &ss.Title, &ss.Description, &ss.StartTime, &ss.EndTime, &ss.Duration, &ss.FocusMode, &ss.Completed, &ss.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("complete study session: %w", err)
	}

	if err := s.progress.RecordStudyTime(ctx, userID, ss.Duration, ss.FocusMode); err != nil {
		slog.Warn("progress update failed", "user_id", userID, "error", err)
	}
	return &ss, nil
}

func (s *SessionService) List(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.StudySession, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, title, description, start_time, end_time, duration, focus_mode, completed, created_at
		 FROM study_sessions WHERE user_id = $1 AND start_time >= $2
		 ORDER BY start_time DESC`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.StudySession
	for rows.Next() {
		var ss models.StudySession
		if err := rows.Scan(&ss.ID, &ss.UserID, &ss.Title, &ss.Description, &ss.StartTime, &ss.EndTime, &ss.Duration, &ss.FocusMode, &ss.Completed, &ss.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan study session: %w", err)
		}
		sessions = append(sessions, ss)
	}
	return sessions, rows.Err()
}

func (s *SessionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM study_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete study session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
