// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - CorpusLoader: Reads and decodes the source corpus into Documents
//   - DocumentSplitter: Splits Documents into deterministically-identified Chunks
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Chat model operations
//   - VectorIndex: Persistent embedding storage and similarity search
//   - GraphStore: Property-graph persistence and graph-QA
//   - PromptStore: User-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or chunker package
package driven
