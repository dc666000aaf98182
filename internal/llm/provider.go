package llm

import (
	"context"
	"fmt"

	"github.com/studybuddy/backend/internal/config"
)

// Provider abstracts the completion-call collaborator. Implementations are
// constructed explicitly from config; there are no ambient singletons, so
// tests substitute fakes without process-wide mutation.
type Provider interface {
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Name() string
}

// Message is a single role-tagged prompt message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatRequest is the input for one completion call.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// ChatResponse is the output of one completion call.
type ChatResponse struct {
	ID           string `json:"id"`
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Content      string `json:"content"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
}

// GenerationError reports a failed completion call (auth, quota, rate limit,
// network). Callers must not retry and must not assume partial output.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s completion: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// New builds the configured provider.
func New(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "groq", "":
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY not set")
		}
		return NewGroqProvider(cfg.GroqKey, cfg.GroqBaseURL), nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return NewAnthropicProvider(cfg.AnthropicKey), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
