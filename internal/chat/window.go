package chat

import (
	"github.com/studybuddy/backend/internal/llm"
	"github.com/studybuddy/backend/internal/models"
)

// HistoryWindow is the number of most recent turns fed back to the model.
const HistoryWindow = 10

// WindowHistory reduces stored turns to the last k in chronological order,
// keeping only role and content. Fewer than k turns pass through unchanged.
func WindowHistory(turns []models.Message, k int) []llm.Message {
	if k < 0 {
		k = 0
	}
	if len(turns) > k {
		turns = turns[len(turns)-k:]
	}

	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		out[i] = llm.Message{Role: t.Role, Content: t.Content}
	}
	return out
}
