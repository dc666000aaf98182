package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studybuddy/backend/internal/cache"
	"github.com/studybuddy/backend/internal/models"
)

const (
	progressWindowDays = 30
	statsCacheTTL      = 5 * time.Minute
)

// ProgressService maintains the per-user, per-day activity counters and
// the derived stats the dashboard shows. Aggregated stats are cached in
// Redis and invalidated on every counter bump.
type ProgressService struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewProgressService(db *pgxpool.Pool, c *cache.Cache) *ProgressService {
	return &ProgressService{db: db, cache: c}
}

// Stats summarizes the recent activity window.
type Stats struct {
	TotalStudyTime    int `json:"total_study_time"` // minutes
	DocumentsRead     int `json:"documents_read"`
	QuestionsAnswered int `json:"questions_answered"`
	FocusSessions     int `json:"focus_sessions"`
	CurrentStreak     int `json:"current_streak"` // consecutive active days
}

func (s *ProgressService) RecordQuestionAnswered(ctx context.Context, userID uuid.UUID) error {
	return s.bump(ctx, userID, "questions_answered", 1)
}

func (s *ProgressService) RecordDocumentRead(ctx context.Context, userID uuid.UUID) error {
	return s.bump(ctx, userID, "documents_read", 1)
}

func (s *ProgressService) RecordStudyTime(ctx context.Context, userID uuid.UUID, minutes int, focus bool) error {
	if minutes > 0 {
		if err := s.bump(ctx, userID, "study_time", minutes); err != nil {
			return err
		}
	}
	if focus {
		return s.bump(ctx, userID, "focus_sessions", 1)
	}
	return nil
}

// bump upserts today's row and increments one counter. The column name
// comes from the fixed set above, never from user input.
func (s *ProgressService) bump(ctx context.Context, userID uuid.UUID, column string, delta int) error {
	query := fmt.Sprintf(
		`INSERT INTO progress (user_id, date, %s) VALUES ($1, CURRENT_DATE, $2)
		 ON CONFLICT (user_id, date) DO UPDATE SET %s = progress.%s + $2`,
		column, column, column,
	)
	if _, err := s.db.Exec(ctx, query, userID, delta); err != nil {
		return fmt.Errorf("increment %s: %w", column, err)
	}
	if err := s.cache.Delete(ctx, statsKey(userID)); err != nil {
		slog.Warn("stats cache invalidation failed", "user_id", userID, "error", err)
	}
	return nil
}

// Recent returns the per-day rows for the last progressWindowDays days,
// oldest first.
func (s *ProgressService) Recent(ctx context.Context, userID uuid.UUID) ([]models.Progress, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, date, study_time, documents_read, questions_answered, focus_sessions
		 FROM progress
		 WHERE user_id = $1 AND date >= CURRENT_DATE - $2::int
		 ORDER BY date ASC`,
		userID, progressWindowDays,
	)
	if err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var days []models.Progress
	for rows.Next() {
		var p models.Progress
		if err := rows.Scan(&p.ID, &p.UserID, &p.Date, &p.StudyTime, &p.DocumentsRead, &p.QuestionsAnswered, &p.FocusSessions); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		days = append(days, p)
	}
	return days, rows.Err()
}

// GetStats aggregates the recent window into totals plus the current
// streak, serving from cache when possible.
func (s *ProgressService) GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	var cached Stats
	err := s.cache.Get(ctx, statsKey(userID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("stats cache read failed", "user_id", userID, "error", err)
	}

	days, err := s.Recent(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{CurrentStreak: computeStreak(days, time.Now())}
	for _, d := range days {
		stats.TotalStudyTime += d.StudyTime
		stats.DocumentsRead += d.DocumentsRead
		stats.QuestionsAnswered += d.QuestionsAnswered
		stats.FocusSessions += d.FocusSessions
	}

	if err := s.cache.Set(ctx, statsKey(userID), stats, statsCacheTTL); err != nil {
		slog.Warn("stats cache write failed", "user_id", userID, "error", err)
	}
	return stats, nil
}

func statsKey(userID uuid.UUID) string {
	return "progress:stats:" + userID.String()
}

// computeStreak counts consecutive active days ending today or
// yesterday. A day counts as active when any counter is non-zero.
func computeStreak(days []models.Progress, now time.Time) int {
	active := make(map[string]bool, len(days))
	for _, d := range days {
		if d.StudyTime > 0 || d.DocumentsRead > 0 || d.QuestionsAnswered > 0 || d.FocusSessions > 0 {
			active[d.Date.Format("2006-01-02")] = true
		}
	}

	day := now
	if !active[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for active[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
