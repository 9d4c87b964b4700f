package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
	"github.com/docsage/docsage-cli/internal/core/ports/driving"
	"github.com/docsage/docsage-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Default retrieval depths for the two context passes.
const (
	DefaultTopKVectors = 4
	DefaultTopKGraph   = 8
)

// AnswerOptions tune the retrieval passes and the final completion.
type AnswerOptions struct {
	// TopKVectors is the number of chunks retrieved from the vector index.
	TopKVectors int

	// TopKGraph caps the graph-QA intermediate steps carried into the
	// final prompt.
	TopKGraph int

	// Temperature is passed to the chat model.
	Temperature float64
}

// AnswerService answers questions by running the vector and graph
// retrieval passes in parallel and handing both contexts to the chat
// model. The graph pass is optional at runtime: if it fails, the answer
// is produced from vector context alone.
type AnswerService struct {
	vectors driven.VectorIndex
	graph   driven.GraphStore
	llm     driven.LLMService
	prompts driven.PromptStore
	opts    AnswerOptions
}

// NewAnswerService creates a new answer service. The graph store may be
// nil, in which case every answer is vector-only.
func NewAnswerService(
	vectors driven.VectorIndex,
	graph driven.GraphStore,
	llm driven.LLMService,
	prompts driven.PromptStore,
	opts AnswerOptions,
) *AnswerService {
	if opts.TopKVectors <= 0 {
		opts.TopKVectors = DefaultTopKVectors
	}
	if opts.TopKGraph <= 0 {
		opts.TopKGraph = DefaultTopKGraph
	}
	return &AnswerService{
		vectors: vectors,
		graph:   graph,
		llm:     llm,
		prompts: prompts,
		opts:    opts,
	}
}

// Answer runs both retrieval passes and produces a grounded answer.
func (s *AnswerService) Answer(ctx context.Context, question string) (domain.HybridAnswer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.HybridAnswer{}, fmt.Errorf("%w: empty question", domain.ErrChat)
	}

	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	var (
		chunks      []domain.Chunk
		graphAnswer domain.GraphAnswer
		vectorErr   error
		graphErr    error
	)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		chunks, vectorErr = s.vectors.SimilaritySearch(ctx, question, s.opts.TopKVectors)
	}()

	go func() {
		defer wg.Done()
		if s.graph == nil {
			graphErr = domain.ErrGraphUnavailable
			return
		}
		graphAnswer, graphErr = s.graph.GraphQA(ctx, question)
	}()

	wg.Wait()

	if vectorErr != nil {
		return domain.HybridAnswer{}, fmt.Errorf("vector pass: %w", vectorErr)
	}
	logger.Debug("Vector pass: %d chunks", len(chunks))

	graphContext := ""
	if graphErr != nil {
		logger.Warn("Graph pass failed, answering from vector context only: %v", graphErr)
	} else {
		graphContext = s.renderGraphContext(graphAnswer)
		logger.Debug("Graph pass: %d intermediate steps", len(graphAnswer.Intermediate))
	}

	answer, err := s.complete(ctx, question, renderVectorContext(chunks), graphContext)
	if err != nil {
		return domain.HybridAnswer{}, err
	}

	return domain.HybridAnswer{
		Answer:        answer,
		VectorContext: chunks,
		GraphContext:  graphContext,
	}, nil
}

func (s *AnswerService) complete(ctx context.Context, question, vectorContext, graphContext string) (string, error) {
	system, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil {
		return "", fmt.Errorf("%w: load system prompt: %w", domain.ErrChat, err)
	}
	human, err := s.prompts.Load(driven.PromptAnswerHuman)
	if err != nil {
		return "", fmt.Errorf("%w: load human prompt: %w", domain.ErrChat, err)
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: system},
		{Role: driven.RoleUser, Content: fmt.Sprintf(human, question, vectorContext, graphContext)},
	}

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{Temperature: s.opts.Temperature})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// renderGraphContext folds the graph-QA result and its reasoning trail
// into a single prompt block.
func (s *AnswerService) renderGraphContext(answer domain.GraphAnswer) string {
	intermediate := answer.Intermediate
	if len(intermediate) > s.opts.TopKGraph {
		intermediate = intermediate[:s.opts.TopKGraph]
	}

	var b strings.Builder
	b.WriteString(answer.Result)
	if len(intermediate) > 0 {
		b.WriteString("\n\nCypher reasoning:\n")
		b.WriteString(strings.Join(intermediate, "\n"))
	}
	return b.String()
}

// renderVectorContext formats retrieved chunks as titled blocks.
func renderVectorContext(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return "(no vector context)"
	}

	blocks := make([]string, 0, len(chunks))
	for _, c := range chunks {
		blocks = append(blocks, fmt.Sprintf("[%s#%d]\n%s", c.Title(), c.ChunkIndex, c.Text))
	}
	return strings.Join(blocks, "\n\n")
}
