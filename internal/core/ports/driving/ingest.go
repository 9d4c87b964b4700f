package driving

import "context"

// IngestReport summarises a completed ingest run.
type IngestReport struct {
	// RunID identifies the ingest run in logs.
	RunID string

	// Documents is the number of raw documents loaded.
	Documents int

	// Chunks is the number of chunks produced and embedded.
	Chunks int

	// Synced is the number of chunks upserted into the graph.
	Synced int
}

// IngestOrchestrator coordinates a full ingest: load the corpus, chunk it,
// build the vector index and sync the graph. Ingest is all-or-nothing per
// invocation; a failure after partial writes leaves the stores in a
// consistent-by-upsert state.
type IngestOrchestrator interface {
	// Ingest processes the corpus under dataDir.
	Ingest(ctx context.Context, dataDir string) (IngestReport, error)
}
