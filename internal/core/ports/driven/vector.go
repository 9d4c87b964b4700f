package driven

import (
	"context"

	"github.com/docsage/docsage-cli/internal/core/domain"
)

// VectorIndex provides persistent embedding storage and similarity search.
//
// The index persists both the vectors and the full chunk payloads, so a
// similarity search returns complete Chunks with populated metadata and no
// second lookup is needed downstream.
//
// Reads are safe for concurrent use; Build is a single-writer operation and
// requires no readers to be active.
type VectorIndex interface {
	// Build computes an embedding per chunk using the embedder, constructs
	// the in-memory index and persists everything. Succeeds only if every
	// chunk embeds and writes.
	Build(ctx context.Context, chunks []domain.Chunk, embedder EmbeddingService) error

	// Load rehydrates a previously persisted index. Returns
	// domain.ErrNotIndexed when nothing has been persisted yet.
	Load(ctx context.Context, embedder EmbeddingService) error

	// SimilaritySearch embeds the query with the same embedder and returns
	// the k chunks most similar to it, highest similarity first. Ties keep
	// insertion order. k larger than the corpus clamps without error.
	SimilaritySearch(ctx context.Context, query string, k int) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}
