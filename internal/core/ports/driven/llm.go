package driven

import "context"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of RoleSystem, RoleUser, or RoleAssistant.
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	// The orchestrator pins it near zero for reproducibility.
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	// Zero means the model default.
	MaxTokens int
}

// LLMService provides chat model operations.
//
// Implementations may include:
//   - Ollama (local models such as mistral or llama3)
//   - Any OpenAI-compatible chat endpoint
type LLMService interface {
	// Chat sends an ordered list of messages and returns the reply text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the chat model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
