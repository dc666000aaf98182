package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ExamPriorityLow    = "low"
	ExamPriorityMedium = "medium"
	ExamPriorityHigh   = "high"
)

type Exam struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Subject     string    `json:"subject,omitempty" db:"subject"`
	ExamDate    time.Time `json:"exam_date" db:"exam_date"`
	Duration    int       `json:"duration,omitempty" db:"duration"`
	Priority    string    `json:"priority" db:"priority"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type StudySession struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	StartTime   time.Time  `json:"start_time" db:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty" db:"end_time"`
	Duration    int        `json:"duration" db:"duration"` // minutes
	FocusMode   bool       `json:"focus_mode" db:"focus_mode"`
	Completed   bool       `json:"completed" db:"completed"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Progress is one per-user, per-day row of study counters.
type Progress struct {
	ID                uuid.UUID `json:"id" db:"id"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	Date              time.Time `json:"date" db:"date"`
	StudyTime         int       `json:"study_time" db:"study_time"` // minutes
	DocumentsRead     int       `json:"documents_read" db:"documents_read"`
	QuestionsAnswered int       `json:"questions_answered" db:"questions_answered"`
	FocusSessions     int       `json:"focus_sessions" db:"focus_sessions"`
}
