package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is one uploaded PDF. Content holds the text extracted at upload
// time; it is written once and never re-extracted.
type Document struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileURL   string    `json:"file_url" db:"file_url"`
	FileSize  int64     `json:"file_size" db:"file_size"`
	Content   string    `json:"-" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
