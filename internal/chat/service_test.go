package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/internal/config"
	"github.com/studybuddy/backend/internal/models"
)

func newTestService(store *fakeStore, provider *fakeProvider, progress *fakeProgress) *Service {
	return NewService(store, provider, progress, config.LLMConfig{
		Model:       "test-model",
		Temperature: 0.7,
		MaxTokens:   1000,
	})
}

func TestSendMessageCreatesSessionAndPersistsTurn(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{replies: []string{"the answer", "Physics Basics"}}
	progress := &fakeProgress{}
	svc := newTestService(store, provider, progress)
	userID := uuid.New()

	result, err := svc.SendMessage(context.Background(), userID, nil, nil, "what is inertia?")
	require.NoError(t, err)
	require.Equal(t, "what is inertia?", result.UserMsg.Content)
	require.Equal(t, "the answer", result.Assistant.Content)

	msgs, _ := store.ListMessages(context.Background(), result.Session.ID)
	require.Len(t, msgs, 2)
	require.Equal(t, models.RoleUser, msgs[0].Role)
	require.Equal(t, models.RoleAssistant, msgs[1].Role)

	// first turn names the session
	stored, _ := store.GetSession(context.Background(), result.Session.ID)
	require.Equal(t, "Physics Basics", stored.Title)

	require.Equal(t, 1, progress.questions)
}

func TestSendMessageGenerationFailureKeepsUserMessageOnly(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{failAt: map[int]bool{0: true}}
	svc := newTestService(store, provider, &fakeProgress{})
	userID := uuid.New()
	session, _ := store.CreateSession(context.Background(), userID, nil, "")

	_, err := svc.SendMessage(context.Background(), userID, &session.ID, nil, "hello?")
	require.Error(t, err)

	msgs, _ := store.ListMessages(context.Background(), session.ID)
	require.Len(t, msgs, 1)
	require.Equal(t, models.RoleUser, msgs[0].Role)
}

func TestSendMessageTitleFailureFallsBack(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{replies: []string{"answer"}, failAt: map[int]bool{1: true}}
	svc := newTestService(store, provider, &fakeProgress{})
	userID := uuid.New()

	result, err := svc.SendMessage(context.Background(), userID, nil, nil, "first message")
	require.NoError(t, err)

	stored, _ := store.GetSession(context.Background(), result.Session.ID)
	require.Equal(t, DefaultTitle, stored.Title)
}

func TestSendMessageSecondTurnKeepsTitle(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{replies: []string{"a1", "My Title", "a2"}}
	svc := newTestService(store, provider, &fakeProgress{})
	userID := uuid.New()

	first, err := svc.SendMessage(context.Background(), userID, nil, nil, "q1")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), userID, &first.Session.ID, nil, "q2")
	require.NoError(t, err)

	stored, _ := store.GetSession(context.Background(), first.Session.ID)
	require.Equal(t, "My Title", stored.Title)
	// only one title call happened: answer, title, answer
	require.Equal(t, 3, provider.call)
}

func TestSendMessageForeignSessionForbidden(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeProvider{}, &fakeProgress{})
	session, _ := store.CreateSession(context.Background(), uuid.New(), nil, "")

	_, err := svc.SendMessage(context.Background(), uuid.New(), &session.ID, nil, "hi")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestSendMessageUnknownSession(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeProvider{}, &fakeProgress{})
	missing := uuid.New()

	_, err := svc.SendMessage(context.Background(), uuid.New(), &missing, nil, "hi")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendMessageUsesDocumentContext(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{replies: []string{"answer", "Title"}}
	svc := newTestService(store, provider, &fakeProgress{})
	userID := uuid.New()
	doc := store.addDocument(userID, "the mitochondria is the powerhouse")

	_, err := svc.SendMessage(context.Background(), userID, nil, &doc.ID, "what is a mitochondria?")
	require.NoError(t, err)

	system := provider.requests[0].Messages[0]
	require.Equal(t, "system", system.Role)
	require.Contains(t, system.Content, "the mitochondria is the powerhouse")
}

func TestSendMessageScannedDocumentEmptyContext(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{replies: []string{"answer", "Title"}}
	svc := newTestService(store, provider, &fakeProgress{})
	userID := uuid.New()
	doc := store.addDocument(userID, "")

	result, err := svc.SendMessage(context.Background(), userID, nil, &doc.ID, "what does my PDF say?")
	require.NoError(t, err)

	// the session still attaches, but an empty extraction means the
	// general prompt, not the document prompt
	stored, _ := store.GetSession(context.Background(), result.Session.ID)
	require.NotNil(t, stored.DocumentID)

	system := provider.requests[0].Messages[0]
	require.NotContains(t, system.Content, "PDF DOCUMENT CONTENT")
}

func TestSendMessageWindowsHistory(t *testing.T) {
	store := newFakeStore()
	provider := &fakeProvider{}
	svc := newTestService(store, provider, &fakeProgress{})
	userID := uuid.New()
	session, _ := store.CreateSession(context.Background(), userID, nil, "")

	for i := 0; i < 14; i++ {
		role := models.RoleUser
		if i%2 == 1 {
			role = models.RoleAssistant
		}
		_, err := store.InsertMessage(context.Background(), session.ID, role, "old")
		require.NoError(t, err)
	}

	_, err := svc.SendMessage(context.Background(), userID, &session.ID, nil, "latest")
	require.NoError(t, err)

	// system + 10 history + new user message
	require.Len(t, provider.requests[0].Messages, HistoryWindow+2)
}
