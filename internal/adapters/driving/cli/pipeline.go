package cli

import (
	"context"

	"github.com/docsage/docsage-cli/internal/adapters/driven/config"
	"github.com/docsage/docsage-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/docsage/docsage-cli/internal/adapters/driven/embedding/ollama"
	neo4jgraph "github.com/docsage/docsage-cli/internal/adapters/driven/graph/neo4j"
	ollamachat "github.com/docsage/docsage-cli/internal/adapters/driven/llm/ollama"
	"github.com/docsage/docsage-cli/internal/adapters/driven/vector/local"
	"github.com/docsage/docsage-cli/internal/chunker"
	"github.com/docsage/docsage-cli/internal/core/services"
	"github.com/docsage/docsage-cli/internal/loaders"
	"github.com/docsage/docsage-cli/internal/logger"
)

// pipeline holds the wired driven adapters shared by the commands.
type pipeline struct {
	cfg      *config.Config
	prompts  *file.PromptStore
	embedder *ollamaembed.EmbeddingService
	llm      *ollamachat.LLMService
	vectors  *local.Store
	graph    *neo4jgraph.Store
}

// buildPipeline resolves configuration and constructs every adapter. The
// graph driver connects lazily, so this succeeds even while Neo4j is down.
func buildPipeline() (*pipeline, error) {
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return nil, err
	}

	embedder := ollamaembed.New(ollamaembed.Config{
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.EmbeddingModel,
	})
	llm := ollamachat.New(ollamachat.Config{
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.ChatModel,
	})

	vectors := local.New(cfg.VectorStorePath, local.WithTrustedLoad(cfg.TrustVectorStore))

	graph, err := neo4jgraph.Connect(neo4jgraph.Config{
		URI:                    cfg.Neo4jURI,
		Username:               cfg.Neo4jUsername,
		Password:               cfg.Neo4jPassword,
		Database:               cfg.Neo4jDatabase,
		AllowDangerousRequests: cfg.AllowDangerousRequests,
	}, llm, prompts)
	if err != nil {
		return nil, err
	}

	logger.Debug("Pipeline: embedding=%s chat=%s graph=%s/%s",
		embedder.ModelName(), llm.ModelName(), cfg.Neo4jURI, cfg.Neo4jDatabase)

	return &pipeline{
		cfg:      cfg,
		prompts:  prompts,
		embedder: embedder,
		llm:      llm,
		vectors:  vectors,
		graph:    graph,
	}, nil
}

// Close releases every adapter.
func (p *pipeline) Close(ctx context.Context) {
	if err := p.graph.Close(ctx); err != nil {
		logger.Warn("Closing graph driver: %v", err)
	}
	_ = p.vectors.Close()
	_ = p.llm.Close()
	_ = p.embedder.Close()
}

// ingestService wires the ingest orchestrator.
func (p *pipeline) ingestService() (*services.IngestService, error) {
	splitter, err := chunker.New(
		chunker.WithChunkSize(p.cfg.ChunkSize),
		chunker.WithChunkOverlap(p.cfg.ChunkOverlap),
	)
	if err != nil {
		return nil, err
	}

	loader := loaders.NewDirectoryLoader()
	return services.NewIngestService(loader, splitter, p.embedder, p.vectors, p.graph), nil
}

// answerService loads the persisted vector index and wires the answer
// service on top of it.
func (p *pipeline) answerService(ctx context.Context) (*services.AnswerService, error) {
	if err := p.vectors.Load(ctx, p.embedder); err != nil {
		return nil, err
	}

	return services.NewAnswerService(p.vectors, p.graph, p.llm, p.prompts, services.AnswerOptions{
		TopKVectors: p.cfg.TopKVectors,
		TopKGraph:   p.cfg.TopKGraph,
		Temperature: p.cfg.ChatTemperature,
	}), nil
}
