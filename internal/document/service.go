package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studybuddy/backend/internal/models"
	"github.com/studybuddy/backend/internal/storage"
	"github.com/studybuddy/backend/pkg/pdftext"
)

// ErrNotFound is returned when a document does not exist or belongs to
// another user.
var ErrNotFound = errors.New("document not found")

// ErrUnreadable is returned when the uploaded file cannot be parsed as a
// PDF.
var ErrUnreadable = errors.New("could not read PDF file")

// ProgressRecorder receives document activity counters. Failures are
// logged and never fail the upload.
type ProgressRecorder interface {
	RecordDocumentRead(ctx context.Context, userID uuid.UUID) error
}

// Service owns the document lifecycle: PDF text extraction at upload
// time, object storage for the original file and the documents table.
type Service struct {
	db       *pgxpool.Pool
	storage  storage.ObjectStore
	progress ProgressRecorder
	bucket   string
}

func NewService(db *pgxpool.Pool, store storage.ObjectStore, progress ProgressRecorder, bucket string) *Service {
	return &Service{
		db:       db,
		storage:  store,
		progress: progress,
		bucket:   bucket,
	}
}

type UploadRequest struct {
	UserID   uuid.UUID
	Title    string
	FileName string
	Data     []byte
}

// Upload extracts text from the PDF, stores the original file and
// records the document. Extraction happens before anything is persisted
// so an unreadable file leaves no trace. A PDF with no extractable text
// (a scanned document) is stored with empty content.
func (s *Service) Upload(ctx context.Context, req UploadRequest) (*models.Document, error) {
	text, err := pdftext.ExtractText(req.Data)
	if err != nil {
		var decodeErr *pdftext.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, ErrUnreadable
		}
		return nil, fmt.Errorf("extract text: %w", err)
	}

	docID := uuid.New()
	path := fmt.Sprintf("%s/%s.pdf", req.UserID, docID)
	if err := s.storage.Upload(ctx, s.bucket, path, req.Data, "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	title := req.Title
	if title == "" {
		title = req.FileName
	}

	var doc models.Document
	err = s.db.QueryRow(ctx,
		`INSERT INTO documents (id, user_id, title, file_name, file_url, file_size, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, user_id, title, file_name, file_url, file_size, content, created_at, updated_at`,
		docID, req.UserID, title, req.FileName, s.storage.PublicURL(s.bucket, path), int64(len(req.Data)), text,
	).Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.FileName, &doc.FileURL, &doc.FileSize, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	if s.progress != nil {
		if err := s.progress.RecordDocumentRead(ctx, req.UserID); err != nil {
			slog.Warn("progress update failed", "user_id", req.UserID, "error", err)
		}
	}
	return &doc, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, title, file_name, file_url, file_size, content, created_at, updated_at
		 FROM documents WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&doc.ID, &doc.UserID, &doc.Title, &doc.FileName, &doc.FileURL, &doc.FileSize, &doc.Content, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, title, file_name, file_url, file_size, created_at, updated_at
		 FROM documents WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.Title, &d.FileName, &d.FileURL, &d.FileSize, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// Delete removes the document row and, best effort, the stored file.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	doc, err := s.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	path := fmt.Sprintf("%s/%s.pdf", userID, doc.ID)
	if err := s.storage.Delete(ctx, s.bucket, path); err != nil {
		slog.Warn("storage delete failed", "document_id", doc.ID, "error", err)
	}
	return nil
}
