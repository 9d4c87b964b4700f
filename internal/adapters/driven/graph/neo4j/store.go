// Package neo4j provides the property-graph store adapter backed by a
// Neo4j database, including the graph-QA chain that lets the chat model
// query the graph.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.GraphStore = (*Store)(nil)

// DefaultDatabase is the logical database used when none is configured.
const DefaultDatabase = "neo4j"

// DefaultMaxRows caps how many result rows a generated query may feed back
// into the verbalisation prompt.
const DefaultMaxRows = 20

// Config holds connection settings for the graph endpoint.
type Config struct {
	// URI is the bolt/neo4j endpoint, e.g. neo4j://localhost:7687.
	URI string

	// Username and Password authenticate the session.
	Username string
	Password string

	// Database is the logical database name (default: neo4j).
	Database string

	// AllowDangerousRequests permits generated queries containing write
	// clauses. Off by default; generated cypher runs against a live
	// database and write operations are a security hazard.
	AllowDangerousRequests bool

	// MaxRows caps result rows retained from a generated query.
	MaxRows int
}

// queryRunner executes cypher against the database. It exists so the
// sync and graph-QA logic can be exercised without a live server.
type queryRunner interface {
	Read(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error)
	Write(ctx context.Context, cypher string, params map[string]any) error
}

// Store is a GraphStore backed by Neo4j.
type Store struct {
	driver  neo4j.DriverWithContext
	llm     driven.LLMService
	prompts driven.PromptStore

	allowDangerous bool
	maxRows        int
	run            queryRunner
}

// Connect creates a store for the configured endpoint. The driver connects
// lazily; connectivity failures surface on the first query so that a chat
// session can still degrade to vector-only answers.
func Connect(cfg Config, llm driven.LLMService, prompts driven.PromptStore) (*Store, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = DefaultMaxRows
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGraphUnavailable, err)
	}

	return &Store{
		driver:         driver,
		llm:            llm,
		prompts:        prompts,
		allowDangerous: cfg.AllowDangerousRequests,
		maxRows:        cfg.MaxRows,
		run:            &driverRunner{driver: driver, database: cfg.Database},
	}, nil
}

// BootstrapSchema declares the uniqueness constraints for deterministic
// nodes. Safe to run repeatedly.
func (s *Store) BootstrapSchema(ctx context.Context) error {
	for _, cypher := range []string{constraintDocID, constraintChunkID} {
		if err := s.run.Write(ctx, cypher, nil); err != nil {
			return fmt.Errorf("%w: bootstrap schema: %w", domain.ErrGraphUnavailable, err)
		}
	}
	return nil
}

// SyncChunks upserts the chunk graph. Chunks are grouped by doc_id keeping
// first-seen order; within a group the provided ordering decides the NEXT
// predecessor, not the chunk index.
func (s *Store) SyncChunks(ctx context.Context, chunks []domain.Chunk) (int, error) {
	grouped := make(map[string][]domain.Chunk)
	var order []string
	for _, c := range chunks {
		if _, seen := grouped[c.DocID]; !seen {
			order = append(order, c.DocID)
		}
		grouped[c.DocID] = append(grouped[c.DocID], c)
	}

	total := 0
	for _, docID := range order {
		group := grouped[docID]
		for i, c := range group {
			if err := ctx.Err(); err != nil {
				return total, fmt.Errorf("%w: %w", domain.ErrCancelled, err)
			}

			params := map[string]any{
				"doc_id":      c.DocID,
				"title":       c.DocumentName,
				"source_path": c.SourcePath,
				"chunk_id":    c.ChunkID,
				"chunk_index": c.ChunkIndex,
				"text":        c.Text,
			}
			if c.DocumentName == "" {
				params["title"] = c.DocID
			}
			if c.SourcePath == "" {
				params["source_path"] = c.DocID
			}

			if err := s.run.Write(ctx, upsertDocument, params); err != nil {
				return total, fmt.Errorf("%w: upsert document %s: %w", domain.ErrGraphUnavailable, c.DocID, err)
			}
			if err := s.run.Write(ctx, upsertChunk, params); err != nil {
				return total, fmt.Errorf("%w: upsert chunk %s: %w", domain.ErrGraphUnavailable, c.ChunkID, err)
			}
			if i > 0 {
				linkParams := map[string]any{
					"current_id":  c.ChunkID,
					"previous_id": group[i-1].ChunkID,
				}
				if err := s.run.Write(ctx, linkSequence, linkParams); err != nil {
					return total, fmt.Errorf("%w: link chunk %s: %w", domain.ErrGraphUnavailable, c.ChunkID, err)
				}
			}
			total++
		}
	}

	return total, nil
}

// Close releases the driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// driverRunner executes cypher through managed driver sessions.
type driverRunner struct {
	driver   neo4j.DriverWithContext
	database string
}

func (r *driverRunner) Read(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: r.database,
		AccessMode:   neo4j.AccessModeRead,
	})
	defer session.Close(ctx)

	rows, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		var out []map[string]any
		for result.Next(ctx) {
			out = append(out, result.Record().AsMap())
		}
		return out, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return rows.([]map[string]any), nil
}

func (r *driverRunner) Write(ctx context.Context, cypher string, params map[string]any) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: r.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return nil, result.Err()
	})
	return err
}
