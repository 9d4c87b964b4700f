package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
)

func TestAnswer(t *testing.T) {
	vectors := &fakeVectorIndex{hits: []domain.Chunk{
		chunkWith("c1", "alpha", 0, "Alpha is the first letter."),
		chunkWith("c2", "beta", 3, "Beta follows alpha."),
	}}
	graph := &fakeGraphStore{answer: domain.GraphAnswer{
		Result:       "alpha.md has 2 chunks.",
		Intermediate: []string{"MATCH (d:Document) RETURN d", "chunks: 2"},
	}}
	llm := &fakeChatLLM{reply: "  Alpha comes first.  "}

	svc := NewAnswerService(vectors, graph, llm, fakePromptStore{}, AnswerOptions{})

	answer, err := svc.Answer(context.Background(), "what is alpha?")
	require.NoError(t, err)

	assert.Equal(t, "Alpha comes first.", answer.Answer)
	assert.Equal(t, vectors.hits, answer.VectorContext)
	assert.Equal(t, "what is alpha?", graph.question)
	assert.Equal(t, DefaultTopKVectors, vectors.lastK)

	// Graph context carries the result plus the reasoning trail.
	assert.Contains(t, answer.GraphContext, "alpha.md has 2 chunks.")
	assert.Contains(t, answer.GraphContext, "Cypher reasoning:")
	assert.Contains(t, answer.GraphContext, "MATCH (d:Document) RETURN d")

	// The completion prompt carries both contexts, titled chunk blocks
	// included.
	require.Len(t, llm.messages, 2)
	assert.Equal(t, driven.RoleSystem, llm.messages[0].Role)
	human := llm.messages[1].Content
	assert.Contains(t, human, "Question: what is alpha?")
	assert.Contains(t, human, "[alpha.md#0]\nAlpha is the first letter.")
	assert.Contains(t, human, "[beta.md#3]\nBeta follows alpha.")
	assert.Contains(t, human, "alpha.md has 2 chunks.")
	assert.Zero(t, llm.options.Temperature)
}

func TestAnswer_GraphFailureDegrades(t *testing.T) {
	vectors := &fakeVectorIndex{hits: []domain.Chunk{chunkWith("c1", "alpha", 0, "Alpha.")}}
	graph := &fakeGraphStore{qaErr: fmt.Errorf("%w: connection refused", domain.ErrGraphQA)}
	llm := &fakeChatLLM{reply: "Alpha, from the docs."}

	svc := NewAnswerService(vectors, graph, llm, fakePromptStore{}, AnswerOptions{})

	answer, err := svc.Answer(context.Background(), "what is alpha?")
	require.NoError(t, err)
	assert.Equal(t, "Alpha, from the docs.", answer.Answer)
	assert.Empty(t, answer.GraphContext)
	assert.NotContains(t, llm.messages[1].Content, "Cypher reasoning")
}

func TestAnswer_NilGraphStore(t *testing.T) {
	vectors := &fakeVectorIndex{hits: []domain.Chunk{chunkWith("c1", "alpha", 0, "Alpha.")}}
	llm := &fakeChatLLM{reply: "Alpha."}

	svc := NewAnswerService(vectors, nil, llm, fakePromptStore{}, AnswerOptions{})

	answer, err := svc.Answer(context.Background(), "what is alpha?")
	require.NoError(t, err)
	assert.Empty(t, answer.GraphContext)
}

func TestAnswer_VectorFailureSurfaces(t *testing.T) {
	vectors := &fakeVectorIndex{searchErr: domain.ErrNotIndexed}
	graph := &fakeGraphStore{}
	llm := &fakeChatLLM{reply: "unused"}

	svc := NewAnswerService(vectors, graph, llm, fakePromptStore{}, AnswerOptions{})

	_, err := svc.Answer(context.Background(), "anything")
	require.ErrorIs(t, err, domain.ErrNotIndexed)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	svc := NewAnswerService(&fakeVectorIndex{}, &fakeGraphStore{}, &fakeChatLLM{}, fakePromptStore{}, AnswerOptions{})

	_, err := svc.Answer(context.Background(), "   ")
	require.ErrorIs(t, err, domain.ErrChat)
}

func TestAnswer_LLMFailure(t *testing.T) {
	vectors := &fakeVectorIndex{hits: []domain.Chunk{chunkWith("c1", "alpha", 0, "Alpha.")}}
	llm := &fakeChatLLM{err: fmt.Errorf("%w: model unavailable", domain.ErrChat)}

	svc := NewAnswerService(vectors, &fakeGraphStore{}, llm, fakePromptStore{}, AnswerOptions{})

	_, err := svc.Answer(context.Background(), "what is alpha?")
	require.ErrorIs(t, err, domain.ErrChat)
}

func TestAnswer_TruncatesGraphReasoning(t *testing.T) {
	intermediate := make([]string, 10)
	for i := range intermediate {
		intermediate[i] = fmt.Sprintf("step-%d", i)
	}
	vectors := &fakeVectorIndex{}
	graph := &fakeGraphStore{answer: domain.GraphAnswer{Result: "ok", Intermediate: intermediate}}
	llm := &fakeChatLLM{reply: "ok"}

	svc := NewAnswerService(vectors, graph, llm, fakePromptStore{}, AnswerOptions{TopKGraph: 3})

	answer, err := svc.Answer(context.Background(), "list steps")
	require.NoError(t, err)
	assert.Contains(t, answer.GraphContext, "step-2")
	assert.NotContains(t, answer.GraphContext, "step-3")
}

func TestAnswer_NoVectorHits(t *testing.T) {
	vectors := &fakeVectorIndex{}
	graph := &fakeGraphStore{answer: domain.GraphAnswer{Result: "graph only"}}
	llm := &fakeChatLLM{reply: "From the graph."}

	svc := NewAnswerService(vectors, graph, llm, fakePromptStore{}, AnswerOptions{})

	answer, err := svc.Answer(context.Background(), "anything indexed?")
	require.NoError(t, err)
	assert.Contains(t, llm.messages[1].Content, "(no vector context)")
	assert.Empty(t, answer.VectorContext)
}

func TestAnswer_CustomTemperature(t *testing.T) {
	vectors := &fakeVectorIndex{}
	llm := &fakeChatLLM{reply: "ok"}

	svc := NewAnswerService(vectors, nil, llm, fakePromptStore{}, AnswerOptions{Temperature: 0.7, TopKVectors: 2})

	_, err := svc.Answer(context.Background(), "anything")
	require.NoError(t, err)
	assert.InDelta(t, 0.7, llm.options.Temperature, 1e-9)
	assert.Equal(t, 2, vectors.lastK)
}
