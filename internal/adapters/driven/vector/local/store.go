// Package local provides a persistent vector index backed by a flat binary
// vector file and a SQLite payload database. Similarity search is an exact
// cosine scan over the in-memory vectors.
package local

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorIndex = (*Store)(nil)

// Persisted file names inside the store directory.
const (
	indexFile   = "index.bin"
	payloadFile = "chunks.db"
)

// DefaultTopK is used when a caller passes a non-positive k.
const DefaultTopK = 4

// Store is a persistent brute-force cosine similarity index.
// The payload database holds the exact chunks that were ingested, so a
// search returns full chunks without a second lookup.
type Store struct {
	mu       sync.RWMutex
	dir      string
	trusted  bool
	embedder driven.EmbeddingService

	dim     int
	vectors [][]float32
	chunks  []domain.Chunk
	loaded  bool
}

// Option configures the store.
type Option func(*Store)

// WithTrustedLoad permits deserializing the persisted index. Loading
// executes payload deserialization, so the persist directory must be
// trusted input; without this option Load refuses to read it.
func WithTrustedLoad(trusted bool) Option {
	return func(s *Store) {
		s.trusted = trusted
	}
}

// New creates a store persisting under dir. The directory is created on
// the first Build.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build embeds every chunk, constructs the in-memory index and persists
// both the vectors and the chunk payloads. The previous persisted state is
// replaced wholesale.
func (s *Store) Build(ctx context.Context, chunks []domain.Chunk, embedder driven.EmbeddingService) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return err
		}
		return fmt.Errorf("%w: embed chunks: %w", domain.ErrEmbedding, err)
	}

	dim := 0
	for i, v := range vectors {
		if i == 0 {
			dim = len(v)
		}
		if len(v) == 0 || len(v) != dim {
			return fmt.Errorf("%w: chunk %d embedded to %d dimensions, want %d",
				domain.ErrEmbedding, i, len(v), dim)
		}
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: create store directory: %w", domain.ErrStorage, err)
	}
	if err := writeVectors(filepath.Join(s.dir, indexFile), dim, vectors); err != nil {
		return fmt.Errorf("%w: write index: %w", domain.ErrStorage, err)
	}
	if err := s.writePayloads(ctx, chunks); err != nil {
		return fmt.Errorf("%w: write payloads: %w", domain.ErrStorage, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedder = embedder
	s.dim = dim
	s.vectors = vectors
	s.chunks = append([]domain.Chunk(nil), chunks...)
	s.loaded = true
	return nil
}

// Load rehydrates the index and payloads persisted by a previous Build.
func (s *Store) Load(ctx context.Context, embedder driven.EmbeddingService) error {
	indexPath := filepath.Join(s.dir, indexFile)
	if _, err := os.Stat(indexPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotIndexed, s.dir)
		}
		return fmt.Errorf("%w: stat index: %w", domain.ErrStorage, err)
	}

	if !s.trusted {
		return fmt.Errorf("%w: refusing to deserialize %s without trusted-load enabled",
			domain.ErrStorage, s.dir)
	}

	dim, vectors, err := readVectors(indexPath)
	if err != nil {
		return fmt.Errorf("%w: read index: %w", domain.ErrStorage, err)
	}

	chunks, err := s.readPayloads(ctx)
	if err != nil {
		return fmt.Errorf("%w: read payloads: %w", domain.ErrStorage, err)
	}
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d payloads for %d vectors", domain.ErrStorage, len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.embedder = embedder
	s.dim = dim
	s.vectors = vectors
	s.chunks = chunks
	s.loaded = true
	return nil
}

// SimilaritySearch embeds the query and returns the k most similar chunks,
// highest similarity first. Ties keep insertion order.
func (s *Store) SimilaritySearch(ctx context.Context, query string, k int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotIndexed, s.dir)
	}
	if k <= 0 {
		k = DefaultTopK
	}

	qv, err := s.embedder.Embed(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrEmbedding, err)
	}
	if len(qv) != s.dim {
		return nil, fmt.Errorf("%w: query embedded to %d dimensions, index has %d",
			domain.ErrEmbedding, len(qv), s.dim)
	}

	scores := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = cosine(qv, v)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	// Stable sort keeps insertion order between equal scores.
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	out := make([]domain.Chunk, 0, k)
	for _, idx := range order[:k] {
		out = append(out, s.chunks[idx])
	}
	return out, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// writePayloads replaces the payload database with the given chunks.
func (s *Store) writePayloads(ctx context.Context, chunks []domain.Chunk) error {
	db, err := sql.Open("sqlite", filepath.Join(s.dir, payloadFile))
	if err != nil {
		return fmt.Errorf("open payload db: %w", err)
	}
	defer db.Close()

	schema := `
		CREATE TABLE IF NOT EXISTS chunks (
			pos INTEGER PRIMARY KEY,
			chunk_id TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			document_name TEXT NOT NULL,
			source_path TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL
		)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create payload table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin payload tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("clear payload table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (pos, chunk_id, doc_id, document_name, source_path, chunk_index, content)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare payload insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range chunks {
		if _, err := stmt.ExecContext(ctx, i, c.ChunkID, c.DocID, c.DocumentName, c.SourcePath, c.ChunkIndex, c.Text); err != nil {
			return fmt.Errorf("insert payload %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// readPayloads loads all chunks in insertion order.
func (s *Store) readPayloads(ctx context.Context) ([]domain.Chunk, error) {
	db, err := sql.Open("sqlite", filepath.Join(s.dir, payloadFile))
	if err != nil {
		return nil, fmt.Errorf("open payload db: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT chunk_id, doc_id, document_name, source_path, chunk_index, content
		FROM chunks ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("query payloads: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.Chunk
		if err := rows.Scan(&c.ChunkID, &c.DocID, &c.DocumentName, &c.SourcePath, &c.ChunkIndex, &c.Text); err != nil {
			return nil, fmt.Errorf("scan payload: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payloads: %w", err)
	}
	return chunks, nil
}
