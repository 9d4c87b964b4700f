package driven

import (
	"context"

	"github.com/docsage/docsage-cli/internal/core/domain"
)

// GraphStore persists documents, chunks and their relationships in a
// property graph, and answers natural-language questions over it.
//
// The graph schema is fixed:
//
//	(:Document {doc_id, title, source_path})
//	(:Chunk {chunk_id, text, chunk_index})
//	(:Document)-[:HAS_CHUNK]->(:Chunk)
//	(:Chunk)-[:NEXT]->(:Chunk)   sequential within a doc_id
//
// doc_id and chunk_id are unique; upserts are keyed on them with
// last-writer-wins attribute semantics, which makes ingest idempotent.
type GraphStore interface {
	// BootstrapSchema declares the uniqueness constraints on
	// Document.doc_id and Chunk.chunk_id. Idempotent.
	BootstrapSchema(ctx context.Context) error

	// SyncChunks upserts Document and Chunk nodes for every chunk, links
	// HAS_CHUNK, and links NEXT from each chunk's predecessor within the
	// same doc_id. Callers must present chunks of a document in index
	// order; the store relies on that ordering to pick the predecessor.
	// Returns the number of chunks processed.
	SyncChunks(ctx context.Context, chunks []domain.Chunk) (int, error)

	// GraphQA translates the question into a graph query using the chat
	// model, executes it and verbalises the result. Failures to produce
	// a query or result are domain.ErrGraphQA and recoverable.
	GraphQA(ctx context.Context, question string) (domain.GraphAnswer, error)

	// Close releases the driver and any open sessions.
	Close(ctx context.Context) error
}
