package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/models"
)

// fakeStore is an in-memory Store for exercising the engine without
// Postgres.
type fakeStore struct {
	sessions  map[uuid.UUID]*models.ChatSession
	messages  map[uuid.UUID][]models.Message
	documents map[uuid.UUID]*models.Document
	clock     time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:  map[uuid.UUID]*models.ChatSession{},
		messages:  map[uuid.UUID][]models.Message{},
		documents: map[uuid.UUID]*models.Document{},
		clock:     time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) addDocument(userID uuid.UUID, content string) *models.Document {
	doc := &models.Document{ID: uuid.New(), UserID: userID, Title: "doc", Content: content}
	f.documents[doc.ID] = doc
	return doc
}

func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) GetSession(ctx context.Context, id uuid.UUID) (*models.ChatSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStore) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.ChatSession, error) {
	var out []models.ChatSession
	for _, s := range f.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateSession(ctx context.Context, userID uuid.UUID, documentID *uuid.UUID, title string) (*models.ChatSession, error) {
	if title == "" {
		title = DefaultTitle
	}
	s := &models.ChatSession{ID: uuid.New(), UserID: userID, DocumentID: documentID, Title: title, CreatedAt: f.tick()}
	f.sessions[s.ID] = s
	copied := *s
	return &copied, nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	delete(f.sessions, id)
	delete(f.messages, id)
	return nil
}

func (f *fakeStore) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	if s, ok := f.sessions[id]; ok {
		s.Title = title
	}
	return nil
}

func (f *fakeStore) TouchSession(ctx context.Context, id uuid.UUID) error {
	if s, ok := f.sessions[id]; ok {
		s.UpdatedAt = f.tick()
	}
	return nil
}

func (f *fakeStore) RecentMessages(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.Message, error) {
	msgs := f.messages[sessionID]
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]models.Message(nil), msgs...), nil
}

func (f *fakeStore) ListMessages(ctx context.Context, sessionID uuid.UUID) ([]models.Message, error) {
	return append([]models.Message(nil), f.messages[sessionID]...), nil
}

func (f *fakeStore) InsertMessage(ctx context.Context, sessionID uuid.UUID, role, content string) (*models.Message, error) {
	m := models.Message{ID: uuid.New(), SessionID: sessionID, Role: role, Content: content, CreatedAt: f.tick()}
	f.messages[sessionID] = append(f.messages[sessionID], m)
	return &m, nil
}

func (f *fakeStore) GetOwnedDocument(ctx context.Context, documentID, userID uuid.UUID) (*models.Document, error) {
	doc, ok := f.documents[documentID]
	if !ok || doc.UserID != userID {
		return nil, ErrDocumentNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeStore) AttachDocument(ctx context.Context, sessionID, documentID uuid.UUID) error {
	if s, ok := f.sessions[sessionID]; ok {
		id := documentID
		s.DocumentID = &id
	}
	return nil
}

func (f *fakeStore) DetachDocument(ctx context.Context, sessionID uuid.UUID) error {
	if s, ok := f.sessions[sessionID]; ok {
		s.DocumentID = nil
	}
	return nil
}

// fakeProvider replays scripted completions in order. A nil entry yields a
// GenerationError.
type fakeProvider struct {
	replies  []string
	failAt   map[int]bool
	call     int
	requests []llm.ChatRequest
}

func (p *fakeProvider) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	p.requests = append(p.requests, req)
	idx := p.call
	p.call++
	if p.failAt[idx] {
		return nil, &llm.GenerationError{Provider: "fake", Err: context.DeadlineExceeded}
	}
	reply := "ok"
	if idx < len(p.replies) {
		reply = p.replies[idx]
	}
	return &llm.ChatResponse{Provider: "fake", Content: reply}, nil
}

func (p *fakeProvider) Name() string { return "fake" }

// fakeProgress counts recorded activity.
type fakeProgress struct {
	questions int
}

func (p *fakeProgress) RecordQuestionAnswered(ctx context.Context, userID uuid.UUID) error {
	p.questions++
	return nil
}
