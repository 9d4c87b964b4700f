package services

import (
	"context"
	"fmt"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
)

type fakeLoader struct {
	docs []domain.Document
	err  error
	dir  string
}

func (f *fakeLoader) Load(_ context.Context, dir string) ([]domain.Document, error) {
	f.dir = dir
	return f.docs, f.err
}

type fakeSplitter struct {
	chunks []domain.Chunk
	err    error
}

func (f *fakeSplitter) Split(_ []domain.Document) ([]domain.Chunk, error) {
	return f.chunks, f.err
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (fakeEmbedder) ModelName() string            { return "fake" }
func (fakeEmbedder) Ping(_ context.Context) error { return nil }
func (fakeEmbedder) Close() error                 { return nil }

type fakeVectorIndex struct {
	built     []domain.Chunk
	buildErr  error
	hits      []domain.Chunk
	searchErr error
	lastK     int
}

func (f *fakeVectorIndex) Build(_ context.Context, chunks []domain.Chunk, _ driven.EmbeddingService) error {
	if f.buildErr != nil {
		return f.buildErr
	}
	f.built = chunks
	return nil
}

func (f *fakeVectorIndex) Load(_ context.Context, _ driven.EmbeddingService) error { return nil }

func (f *fakeVectorIndex) SimilaritySearch(_ context.Context, _ string, k int) ([]domain.Chunk, error) {
	f.lastK = k
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.hits, nil
}

func (f *fakeVectorIndex) Close() error { return nil }

type fakeGraphStore struct {
	synced       []domain.Chunk
	bootstrapped bool
	bootstrapErr error
	syncErr      error
	answer       domain.GraphAnswer
	qaErr        error
	question     string
}

func (f *fakeGraphStore) BootstrapSchema(_ context.Context) error {
	if f.bootstrapErr != nil {
		return f.bootstrapErr
	}
	f.bootstrapped = true
	return nil
}

func (f *fakeGraphStore) SyncChunks(_ context.Context, chunks []domain.Chunk) (int, error) {
	if f.syncErr != nil {
		return len(chunks) / 2, f.syncErr
	}
	f.synced = chunks
	return len(chunks), nil
}

func (f *fakeGraphStore) GraphQA(_ context.Context, question string) (domain.GraphAnswer, error) {
	f.question = question
	if f.qaErr != nil {
		return domain.GraphAnswer{}, f.qaErr
	}
	return f.answer, nil
}

func (f *fakeGraphStore) Close(_ context.Context) error { return nil }

type fakeChatLLM struct {
	reply    string
	err      error
	messages []driven.ChatMessage
	options  driven.ChatOptions
}

func (f *fakeChatLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.messages = messages
	f.options = opts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeChatLLM) ModelName() string            { return "fake" }
func (f *fakeChatLLM) Ping(_ context.Context) error { return nil }
func (f *fakeChatLLM) Close() error                 { return nil }

type fakePromptStore struct{}

func (fakePromptStore) Load(name string) (string, error) {
	switch name {
	case driven.PromptAnswerSystem:
		return "You answer from supplied context.", nil
	case driven.PromptAnswerHuman:
		return "Question: %s\n\nVector context:\n%s\n\nGraph context:\n%s", nil
	}
	return "", fmt.Errorf("unknown prompt %s", name)
}

func (fakePromptStore) Reload() {}

func chunkWith(id, docID string, index int, text string) domain.Chunk {
	return domain.Chunk{
		ChunkID:      id,
		DocID:        docID,
		DocumentName: docID + ".md",
		SourcePath:   "docs/" + docID + ".md",
		ChunkIndex:   index,
		Text:         text,
	}
}
