package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studybuddy/backend/internal/mailer"
	"github.com/studybuddy/backend/internal/queue"
)

// ReminderWorker emails users about upcoming exams. A reminder whose
// exam was deleted or already sat is dropped, not retried.
type ReminderWorker struct {
	db     *pgxpool.Pool
	mailer mailer.Mailer
}

func NewReminderWorker(db *pgxpool.Pool, m mailer.Mailer) *ReminderWorker {
	return &ReminderWorker{db: db, mailer: m}
}

func (w *ReminderWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.ExamReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	examID, err := uuid.Parse(payload.ExamID)
	if err != nil {
		return fmt.Errorf("parse exam ID: %w", err)
	}

	var (
		title    string
		subject  string
		examDate time.Time
		email    string
		name     string
	)
	err = w.db.QueryRow(ctx,
		`SELECT e.title, e.subject, e.exam_date, u.email, u.name
		 FROM exams e JOIN users u ON u.id = e.user_id
		 WHERE e.id = $1`,
		examID,
	).Scan(&title, &subject, &examDate, &email, &name)
	if err != nil {
		slog.Warn("reminder skipped, exam gone", "exam_id", examID, "error", err)
		return nil
	}
	if examDate.Before(time.Now()) {
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour exam %q is coming up on %s.",
		name, title, examDate.Format("Monday, January 2 at 15:04"),
	)
	if subject != "" {
		body += fmt.Sprintf("\nSubject: %s", subject)
	}
	body += "\n\nGood luck with your preparation!"

	if err := w.mailer.Send(email, fmt.Sprintf("Upcoming exam: %s", title), body); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	slog.Info("exam reminder sent", "exam_id", examID)
	return nil
}
