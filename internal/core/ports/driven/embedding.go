package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Vectors are fixed-dimension floats for a given model, and deterministic
// for a given model version. The same service instance must be used for
// building the vector index and embedding queries against it.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm)
//   - Any OpenAI-compatible embedding endpoint
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// The result has one vector per input text, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
