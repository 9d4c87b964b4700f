package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsage/docsage-cli/internal/core/domain"
)

type stubAnswerer struct {
	answer   domain.HybridAnswer
	err      error
	question string
}

func (s *stubAnswerer) Answer(_ context.Context, question string) (domain.HybridAnswer, error) {
	s.question = question
	return s.answer, s.err
}

func sized(m *Chat) *Chat {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(*Chat)
}

func TestChat_SubmitAsksService(t *testing.T) {
	svc := &stubAnswerer{answer: domain.HybridAnswer{Answer: "Alpha comes first."}}
	m := sized(NewChat(svc, false))

	m.input.SetValue("what is alpha?")
	cmd := m.submit()
	require.NotNil(t, cmd)
	assert.True(t, m.waiting)
	assert.Empty(t, m.input.Value())

	msg := cmd()
	answer, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, "what is alpha?", svc.question)
	assert.Equal(t, "Alpha comes first.", answer.answer.Answer)
}

func TestChat_SubmitIgnoresEmptyInput(t *testing.T) {
	m := sized(NewChat(&stubAnswerer{}, false))

	m.input.SetValue("   ")
	assert.Nil(t, m.submit())
	assert.False(t, m.waiting)
}

func TestChat_SubmitIgnoredWhileWaiting(t *testing.T) {
	m := sized(NewChat(&stubAnswerer{}, false))
	m.waiting = true

	m.input.SetValue("another question")
	assert.Nil(t, m.submit())
}

func TestChat_AnswerMsgAppendsEntry(t *testing.T) {
	m := sized(NewChat(&stubAnswerer{}, false))
	m.waiting = true

	updated, _ := m.Update(answerMsg{
		question: "what is alpha?",
		answer:   domain.HybridAnswer{Answer: "The first letter."},
	})
	m = updated.(*Chat)

	assert.False(t, m.waiting)
	require.Len(t, m.entries, 1)
	assert.Equal(t, "what is alpha?", m.entries[0].question)

	view := m.View()
	assert.Contains(t, view, "The first letter.")
}

func TestChat_QuitKeys(t *testing.T) {
	m := sized(NewChat(&stubAnswerer{}, false))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestRenderEntries(t *testing.T) {
	entries := []entry{
		{
			question: "what is alpha?",
			answer: domain.HybridAnswer{
				Answer: "The first letter.",
				VectorContext: []domain.Chunk{
					{DocumentName: "alpha.md", ChunkIndex: 2, Text: "Alpha."},
				},
				GraphContext: "alpha.md has 2 chunks.",
			},
		},
	}

	plain := renderEntries(entries, false)
	assert.Contains(t, plain, "You: what is alpha?")
	assert.Contains(t, plain, "The first letter.")
	assert.NotContains(t, plain, "Sources:")

	debug := renderEntries(entries, true)
	assert.Contains(t, debug, "Sources: alpha.md#2")
	assert.Contains(t, debug, "alpha.md has 2 chunks.")
}

func TestRenderEntries_Error(t *testing.T) {
	entries := []entry{{question: "broken?", err: errors.New("graph exploded")}}

	out := renderEntries(entries, false)
	assert.Contains(t, out, "graph exploded")
}

func TestRenderEntries_Empty(t *testing.T) {
	assert.Contains(t, renderEntries(nil, false), "Ask a question")
}
