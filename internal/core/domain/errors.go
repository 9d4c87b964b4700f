package domain

import "errors"

// Domain errors represent pipeline failures by subsystem.
// These are distinct from infrastructure errors and are matched with
// errors.Is at the CLI boundary.
var (
	// ErrConfig indicates missing or invalid settings. Startup fatal.
	ErrConfig = errors.New("invalid configuration")

	// ErrIngest indicates the source directory is missing or the corpus
	// is empty. Fatal to ingest only.
	ErrIngest = errors.New("ingest failed")

	// ErrEmbedding indicates the embedding service failed.
	ErrEmbedding = errors.New("embedding service error")

	// ErrChat indicates the chat model service failed.
	ErrChat = errors.New("chat service error")

	// ErrGraphUnavailable indicates the graph database could not be
	// reached or refused authentication.
	ErrGraphUnavailable = errors.New("graph database unavailable")

	// ErrGraphQA indicates the graph-QA chain could not produce a query
	// or a result. Recoverable: the orchestrator substitutes an empty
	// graph context and proceeds.
	ErrGraphQA = errors.New("graph qa failed")

	// ErrNotIndexed indicates the persisted vector store is absent.
	// The user should run ingest first.
	ErrNotIndexed = errors.New("vector store not found")

	// ErrStorage indicates an I/O failure on the persisted vector index.
	ErrStorage = errors.New("vector storage error")

	// ErrCancelled indicates a cooperative abort via context.
	ErrCancelled = errors.New("cancelled")
)
