package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/internal/llm"
)

func TestComposePromptShape(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	msgs := ComposePrompt(history, "new question", "")
	require.Len(t, msgs, 4)
	require.Equal(t, "system", msgs[0].Role)
	require.Equal(t, history[0], msgs[1])
	require.Equal(t, history[1], msgs[2])
	require.Equal(t, llm.Message{Role: "user", Content: "new question"}, msgs[3])
}

func TestComposePromptNoHistory(t *testing.T) {
	msgs := ComposePrompt(nil, "hi", "")
	require.Len(t, msgs, 2)
	require.Equal(t, "system", msgs[0].Role)
	require.Equal(t, "user", msgs[1].Role)
}

func TestComposePromptEmbedsDocumentVerbatim(t *testing.T) {
	doc := "Chapter 1: Thermodynamics.\n\nEnergy cannot be created or destroyed."

	msgs := ComposePrompt(nil, "summarize", doc)
	require.Contains(t, msgs[0].Content, doc)
}

func TestComposePromptGeneralWithoutDocument(t *testing.T) {
	msgs := ComposePrompt(nil, "hello", "")
	require.NotContains(t, msgs[0].Content, "PDF DOCUMENT CONTENT")
}

func TestComposePromptLargeDocumentNotTruncated(t *testing.T) {
	doc := strings.Repeat("lorem ipsum ", 50000)

	msgs := ComposePrompt(nil, "q", doc)
	require.Contains(t, msgs[0].Content, doc)
}

func TestComposeTitlePrompt(t *testing.T) {
	msgs := ComposeTitlePrompt("explain photosynthesis")
	require.Len(t, msgs, 1)
	require.Equal(t, "user", msgs[0].Role)
	require.Contains(t, msgs[0].Content, "explain photosynthesis")
	require.Contains(t, msgs[0].Content, "max 5 words")
}
