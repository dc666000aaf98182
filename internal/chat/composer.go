package chat

import (
	"fmt"

	"github.com/studybuddy/backend/internal/llm"
)

// DefaultTitle is the session title used when title generation fails.
const DefaultTitle = "New Chat"

const documentSystemPrompt = `You are a helpful study buddy assistant. The student has uploaded a PDF document and you must use it to answer their questions.

IMPORTANT: The full text of their PDF document is provided below. You MUST read and reference this document when answering their questions.

When answering questions:
- PRIMARY: Answer based on the PDF document content provided below
- If the answer is in the document, clearly reference specific parts of it
- If the question cannot be answered from the document, say so explicitly and then provide general knowledge
- Be thorough and cite specific information from the document
- Use examples from the document when helpful

PDF DOCUMENT CONTENT:
%s

Remember: The student expects you to have read and understood their PDF document. Reference it directly in your answers.`

const generalSystemPrompt = `You are a helpful study buddy assistant. You help students learn and understand various topics.

When answering questions:
- Provide clear, accurate, and helpful answers
- Be concise but thorough
- Use examples when helpful
- Encourage learning and understanding
- If the student needs help with a specific document, suggest they upload it so you can provide more targeted assistance
- You can help with homework, exam preparation, concept clarification, and general learning support`

// ComposePrompt builds the message sequence for one chat turn: one system
// message, the windowed history in order, then the new question. When
// docContext is non-empty the entire extracted text is embedded verbatim in
// the system message; there is no truncation or retrieval here, the model's
// context limit is the caller's concern.
func ComposePrompt(history []llm.Message, question, docContext string) []llm.Message {
	system := generalSystemPrompt
	if docContext != "" {
		system = fmt.Sprintf(documentSystemPrompt, docContext)
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: question})
	return messages
}

// ComposeTitlePrompt builds the one-shot prompt that names a session from its
// first user message.
func ComposeTitlePrompt(firstMessage string) []llm.Message {
	return []llm.Message{{
		Role: "user",
		Content: fmt.Sprintf(
			"Generate a short, concise title (max 5 words) for this conversation based on the first message: %q. Only respond with the title, nothing else.",
			firstMessage,
		),
	}}
}
