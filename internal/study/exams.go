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
	"github.com/studybuddy/backend/internal/queue"
)

// ErrNotFound is returned when an exam or study session does not exist
// or belongs to another user.
var ErrNotFound = errors.New("not found")

// ExamService is simple CRUD over the exams table. Creating an exam
// schedules a reminder email for the day before.
type ExamService struct {
	db    *pgxpool.Pool
	queue *queue.Client
}

func NewExamService(db *pgxpool.Pool, qc *queue.Client) *ExamService {
	return &ExamService{db: db, queue: qc}
}

type ExamInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	ExamDate    time.Time `json:"exam_date"`
	Duration    int       `json:"duration"`
	Priority    string    `json:"priority"`
}

func (in *ExamInput) Validate() error {
	if in.Title == "" {
		return errors.New("title is required")
	}
	if in.ExamDate.IsZero() {
		return errors.New("exam_date is required")
	}
	switch in.Priority {
	case "":
		in.Priority = models.ExamPriorityMedium
	case models.ExamPriorityLow, models.ExamPriorityMedium, models.ExamPriorityHigh:
	default:
		return fmt.Errorf("invalid priority %q", in.Priority)
	}
	return nil
}

func (s *ExamService) Create(ctx context.Context, userID uuid.UUID, in ExamInput) (*models.Exam, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var e models.Exam
	err := s.db.QueryRow(ctx,
		`INSERT INTO exams (user_id, title, description, subject, exam_date, duration, priority)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, title, description, subject, exam_date, duration, priority, created_at`,
		userID, in.Title, in.Description, in.Subject, in.ExamDate, in.Duration, in.Priority,
	).Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Subject, &e.ExamDate, &e.Duration, &e.Priority, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	if s.queue != nil {
		sendAt := e.ExamDate.Add(-24 * time.Hour)
		if sendAt.After(time.Now()) {
			if err := s.queue.EnqueueExamReminder(queue.ExamReminderPayload{ExamID: e.ID.String()}, sendAt); err != nil {
				slog.Warn("reminder enqueue failed", "exam_id", e.ID, "error", err)
			}
		}
	}
	return &e, nil
}

func (s *ExamService) List(ctx context.Context, userID uuid.UUID) ([]models.Exam, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, title, description, subject, exam_date, duration, priority, created_at
		 FROM exams WHERE user_id = $1 ORDER BY exam_date ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	var exams []models.Exam
	for rows.Next() {
		var e models.Exam
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Subject, &e.ExamDate, &e.Duration, &e.Priority, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (s *ExamService) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Exam, error) {
	var e models.Exam
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, title, description, subject, exam_date, duration, priority, created_at
		 FROM exams WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Subject, &e.ExamDate, &e.Duration, &e.Priority, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return &e, nil
}

func (s *ExamService) Update(ctx context.Context, userID, id uuid.UUID, in ExamInput) (*models.Exam, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var e models.Exam
	err := s.db.QueryRow(ctx,
		`UPDATE exams
		 SET title = $1, description = $2, subject = $3, exam_date = $4, duration = $5, priority = $6
		 WHERE id = $7 AND user_id = $8
		 RETURNING id, user_id, title, description, subject, exam_date, duration, priority, created_at`,
		in.Title, in.Description, in.Subject, in.ExamDate, in.Duration, in.Priority, id, userID,
	).Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Subject, &e.ExamDate, &e.Duration, &e.Priority, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update exam: %w", err)
	}
	return &e, nil
}

func (s *ExamService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM exams WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
