package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
	"github.com/docsage/docsage-cli/internal/core/ports/driving"
	"github.com/docsage/docsage-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestOrchestrator = (*IngestService)(nil)

// IngestService loads a document corpus, splits it into chunks and feeds
// the same chunk set to the vector index and the graph store. Chunk ids
// are content hashes, so both stores always agree on chunk identity.
type IngestService struct {
	loader   driven.CorpusLoader
	splitter driven.DocumentSplitter
	embedder driven.EmbeddingService
	vectors  driven.VectorIndex
	graph    driven.GraphStore
}

// NewIngestService creates a new ingest orchestrator.
func NewIngestService(
	loader driven.CorpusLoader,
	splitter driven.DocumentSplitter,
	embedder driven.EmbeddingService,
	vectors driven.VectorIndex,
	graph driven.GraphStore,
) *IngestService {
	return &IngestService{
		loader:   loader,
		splitter: splitter,
		embedder: embedder,
		vectors:  vectors,
		graph:    graph,
	}
}

// Ingest runs a full indexing pass over dataDir. The vector index is
// rebuilt before the graph is touched; a graph failure therefore leaves a
// usable vector store behind.
func (s *IngestService) Ingest(ctx context.Context, dataDir string) (driving.IngestReport, error) {
	report := driving.IngestReport{RunID: uuid.NewString()}

	logger.Section("Ingest")
	logger.Info("Run %s: loading corpus from %s", report.RunID, dataDir)

	docs, err := s.loader.Load(ctx, dataDir)
	if err != nil {
		return report, fmt.Errorf("load corpus: %w", err)
	}
	if len(docs) == 0 {
		return report, fmt.Errorf("%w: no documents found in %s", domain.ErrIngest, dataDir)
	}
	report.Documents = len(docs)

	chunks, err := s.splitter.Split(docs)
	if err != nil {
		return report, fmt.Errorf("split corpus: %w", err)
	}
	if len(chunks) == 0 {
		return report, fmt.Errorf("%w: corpus produced no chunks", domain.ErrIngest)
	}
	report.Chunks = len(chunks)
	logger.Info("Split %d documents into %d chunks", len(docs), len(chunks))

	logger.Debug("Building vector index")
	if err := s.vectors.Build(ctx, chunks, s.embedder); err != nil {
		return report, fmt.Errorf("build vector index: %w", err)
	}

	logger.Debug("Syncing chunk graph")
	if err := s.graph.BootstrapSchema(ctx); err != nil {
		return report, fmt.Errorf("bootstrap graph schema: %w", err)
	}
	synced, err := s.graph.SyncChunks(ctx, chunks)
	report.Synced = synced
	if err != nil {
		return report, fmt.Errorf("sync chunk graph: %w", err)
	}

	logger.Info("Run %s: %d documents, %d chunks, %d synced to graph",
		report.RunID, report.Documents, report.Chunks, report.Synced)

	return report, nil
}
