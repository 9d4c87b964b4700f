package driven

import (
	"context"

	"github.com/docsage/docsage-cli/internal/core/domain"
)

// CorpusLoader reads a directory of mixed-format files and decodes them
// into Documents. Every returned Document carries the source metadata key.
//
// Implementations may parallelise file reads but must return documents in
// a deterministic order so chunk identities are reproducible.
type CorpusLoader interface {
	// Load returns the decoded documents under dir. A missing or
	// unreadable directory is domain.ErrIngest; an empty corpus is an
	// empty slice for callers to reject.
	Load(ctx context.Context, dir string) ([]domain.Document, error)
}

// DocumentSplitter turns Documents into ordered, deterministically
// identified Chunks. The chunk index is a running counter across the whole
// splitting pass, and the chunk id is a content hash of the final text.
type DocumentSplitter interface {
	// Split chunks the documents in order. Documents with empty content
	// are dropped.
	Split(docs []domain.Document) ([]domain.Chunk, error)
}
