package domain

import "path/filepath"

// MetadataSource is the metadata key document loaders must set on every
// Document they produce. It carries the originating file path.
const MetadataSource = "source"

// Document represents a parsed source document entering the pipeline.
// It is produced by a loader and immutable afterwards.
type Document struct {
	// PageContent is the full text content after format decoding.
	PageContent string

	// Metadata contains string key-value pairs. Loaders must set
	// MetadataSource; other keys are optional and carried through.
	Metadata map[string]string
}

// Source returns the source path recorded by the loader, or "" if absent.
func (d Document) Source() string {
	return d.Metadata[MetadataSource]
}

// Chunk is a contiguous piece of a Document, bounded by target size and
// overlap, carrying deterministic identity. A Chunk's identity is shared
// between the vector index and the graph store.
type Chunk struct {
	// ChunkID is the hex-encoded 128-bit content hash of Text.
	// Identical content always yields the same ChunkID.
	ChunkID string

	// DocID groups chunks of the same origin; it is the stem of the
	// source file name.
	DocID string

	// DocumentName is the source file name including extension.
	DocumentName string

	// SourcePath is the full source path the chunk came from.
	SourcePath string

	// ChunkIndex is the position assigned by the splitting pass. The
	// counter runs across the whole pass, so it is an ordering key
	// within a DocID, not a global identifier.
	ChunkIndex int

	// Text is the chunk content.
	Text string
}

// Title returns the best human-readable label for the chunk's document:
// the document name, falling back to the source path, then "unknown".
func (c Chunk) Title() string {
	if c.DocumentName != "" {
		return c.DocumentName
	}
	if c.SourcePath != "" {
		return c.SourcePath
	}
	return "unknown"
}

// DocStem derives a DocID from a source path (file name without extension).
func DocStem(sourcePath string) string {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

// GraphAnswer is the graph-QA chain's output: a verbalised result plus the
// intermediate reasoning steps (generated query and raw rows).
type GraphAnswer struct {
	// Result is the verbalised answer derived from the graph query.
	Result string

	// Intermediate holds the chain's reasoning steps in order, starting
	// with the generated query. May be empty.
	Intermediate []string
}

// HybridAnswer is the orchestrator's final response bundle: the generated
// text plus the vector and graph contexts that grounded it.
type HybridAnswer struct {
	// Answer is the generated reply, trimmed.
	Answer string

	// VectorContext holds the chunks returned by the similarity search.
	VectorContext []Chunk

	// GraphContext is the rendered graph evidence, "" when the graph
	// pass produced nothing.
	GraphContext string
}
