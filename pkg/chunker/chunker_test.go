package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studybuddy/backend/pkg/chunker"
)

func TestSplitShortTextSingleChunk(t *testing.T) {
	chunks := chunker.Split("hello world", 100)
	require.Equal(t, []string{"hello world"}, chunks)
}

func TestSplitEmptyText(t *testing.T) {
	require.Empty(t, chunker.Split("", 100))
	require.Empty(t, chunker.Split("   \n\n  ", 100))
}

func TestSplitRespectsMaxSize(t *testing.T) {
	var paragraphs []string
	for i := 0; i < 40; i++ {
		paragraphs = append(paragraphs, strings.Repeat("word ", 30))
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := chunker.Split(text, 500)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		require.LessOrEqual(t, len(c), 500)
		require.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestSplitOversizedParagraphFallsBackToWords(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("alpha beta gamma ", 100))

	chunks := chunker.Split(text, 50)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		require.LessOrEqual(t, len(c), 50)
	}
}

func TestSplitOversizedWordKeptWhole(t *testing.T) {
	long := strings.Repeat("x", 120)
	chunks := chunker.Split("short "+long+" tail", 50)

	found := false
	for _, c := range chunks {
		if c == long {
			found = true
		}
	}
	require.True(t, found, "oversized word should come through as its own chunk")
}

func TestSplitPreservesAllWords(t *testing.T) {
	text := "one two three\n\nfour five six\n\nseven eight nine ten"

	chunks := chunker.Split(text, 20)
	joined := strings.Fields(strings.Join(chunks, " "))
	require.Equal(t, strings.Fields(text), joined)
}

func TestSplitDeterministic(t *testing.T) {
	text := strings.Repeat("some steady input text. ", 200)
	first := chunker.Split(text, 300)
	second := chunker.Split(text, 300)
	require.Equal(t, first, second)
}
