// Package services contains the application core: the ingest orchestrator
// that feeds both stores from a document corpus, and the answer service
// that combines vector and graph context into a chat completion.
package services
