package chat

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestResolveUnattachedNoRequest(t *testing.T) {
	store := newFakeStore()
	mgr := NewAttachmentManager(store)
	userID := uuid.New()
	session, _ := store.CreateSession(context.Background(), userID, nil, "")

	doc, err := mgr.Resolve(context.Background(), session, nil)
	require.NoError(t, err)
	require.Nil(t, doc)
	require.Nil(t, session.DocumentID)
}

func TestResolveAttachesOwnedDocument(t *testing.T) {
	store := newFakeStore()
	mgr := NewAttachmentManager(store)
	userID := uuid.New()
	owned := store.addDocument(userID, "doc body")
	session, _ := store.CreateSession(context.Background(), userID, nil, "")

	doc, err := mgr.Resolve(context.Background(), session, &owned.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.Equal(t, "doc body", doc.Content)
	require.NotNil(t, session.DocumentID)
	require.Equal(t, owned.ID, *session.DocumentID)

	// persisted too
	stored, _ := store.GetSession(context.Background(), session.ID)
	require.NotNil(t, stored.DocumentID)
}

func TestResolveRefusesForeignDocumentSilently(t *testing.T) {
	store := newFakeStore()
	mgr := NewAttachmentManager(store)
	foreign := store.addDocument(uuid.New(), "not yours")
	session, _ := store.CreateSession(context.Background(), uuid.New(), nil, "")

	doc, err := mgr.Resolve(context.Background(), session, &foreign.ID)
	require.NoError(t, err)
	require.Nil(t, doc)
	require.Nil(t, session.DocumentID)
}

func TestResolveAttachedIsStable(t *testing.T) {
	store := newFakeStore()
	mgr := NewAttachmentManager(store)
	userID := uuid.New()
	bound := store.addDocument(userID, "bound")
	other := store.addDocument(userID, "other")
	session, _ := store.CreateSession(context.Background(), userID, &bound.ID, "")

	// same ID requested again: no-op
	doc, err := mgr.Resolve(context.Background(), session, &bound.ID)
	require.NoError(t, err)
	require.Equal(t, bound.ID, doc.ID)

	// different ID requested: bound document still wins
	doc, err = mgr.Resolve(context.Background(), session, &other.ID)
	require.NoError(t, err)
	require.Equal(t, bound.ID, doc.ID)
	require.Equal(t, bound.ID, *session.DocumentID)
}

func TestResolveAttachedDocumentDeleted(t *testing.T) {
	store := newFakeStore()
	mgr := NewAttachmentManager(store)
	userID := uuid.New()
	bound := store.addDocument(userID, "gone soon")
	session, _ := store.CreateSession(context.Background(), userID, &bound.ID, "")

	delete(store.documents, bound.ID)

	doc, err := mgr.Resolve(context.Background(), session, nil)
	require.NoError(t, err)
	require.Nil(t, doc)
}

func TestExplicitAttach(t *testing.T) {
	store := newFakeStore()
	mgr := NewAttachmentManager(store)
	userID := uuid.New()
	owned := store.addDocument(userID, "a")
	other := store.addDocument(userID, "b")
	foreign := store.addDocument(uuid.New(), "c")
	session, _ := store.CreateSession(context.Background(), userID, nil, "")

	// foreign document is surfaced, unlike the chat-turn path
	require.ErrorIs(t, mgr.Attach(context.Background(), session, foreign.ID), ErrDocumentNotFound)
	require.Nil(t, session.DocumentID)

	require.NoError(t, mgr.Attach(context.Background(), session, owned.ID))
	require.Equal(t, owned.ID, *session.DocumentID)

	// same document again is a no-op
	require.NoError(t, mgr.Attach(context.Background(), session, owned.ID))

	// rebinding requires a detach first
	require.ErrorIs(t, mgr.Attach(context.Background(), session, other.ID), ErrAlreadyAttached)
	require.Equal(t, owned.ID, *session.DocumentID)
}

func TestDetach(t *testing.T) {
	store := newFakeStore()
	mgr := NewAttachmentManager(store)
	userID := uuid.New()
	owned := store.addDocument(userID, "a")
	session, _ := store.CreateSession(context.Background(), userID, &owned.ID, "")

	require.NoError(t, mgr.Detach(context.Background(), session))
	require.Nil(t, session.DocumentID)

	// detaching an unattached session is a no-op
	require.NoError(t, mgr.Detach(context.Background(), session))

	// the document itself is untouched
	require.Contains(t, store.documents, owned.ID)
}
