// Package tui provides the interactive chat surface built on bubbletea.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docsage/docsage-cli/internal/core/domain"
)

// Answerer is the slice of the answer service the chat needs.
type Answerer interface {
	Answer(ctx context.Context, question string) (domain.HybridAnswer, error)
}

// Styles for the transcript.
var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	sourceStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// entry is one question/answer exchange in the transcript.
type entry struct {
	question string
	answer   domain.HybridAnswer
	err      error
}

// answerMsg carries a completed answer back into the update loop.
type answerMsg struct {
	question string
	answer   domain.HybridAnswer
	err      error
}

// Chat is the bubbletea model for an interactive session.
type Chat struct {
	svc Answerer
	ctx context.Context

	input    textinput.Model
	viewport viewport.Model
	entries  []entry

	debug   bool
	waiting bool
	ready   bool
	width   int
	height  int
}

// NewChat creates the chat model. With debug enabled each answer lists
// the chunks and graph context it was grounded on.
func NewChat(svc Answerer, debug bool) *Chat {
	ti := textinput.New()
	ti.Placeholder = "Ask about your documents..."
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Focus()

	return &Chat{
		svc:    svc,
		ctx:    context.Background(),
		input:  ti,
		debug:  debug,
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for answer calls.
func (m *Chat) WithContext(ctx context.Context) *Chat {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

// Init starts the cursor blink.
func (m *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, m.transcriptHeight())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = m.transcriptHeight()
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		}

	case answerMsg:
		m.waiting = false
		m.entries = append(m.entries, entry{
			question: msg.question,
			answer:   msg.answer,
			err:      msg.err,
		})
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View renders the transcript, input line and help footer.
func (m *Chat) View() string {
	if !m.ready {
		return "Starting chat..."
	}

	status := ""
	if m.waiting {
		status = helpStyle.Render("thinking...")
	}

	return strings.Join([]string{
		m.viewport.View(),
		status,
		m.input.View(),
		helpStyle.Render("enter: ask • esc: quit"),
	}, "\n")
}

// submit sends the current input as a question.
func (m *Chat) submit() tea.Cmd {
	if m.waiting {
		return nil
	}
	question := strings.TrimSpace(m.input.Value())
	if question == "" {
		return nil
	}

	m.input.Reset()
	m.waiting = true

	return func() tea.Msg {
		answer, err := m.svc.Answer(m.ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m *Chat) transcriptHeight() int {
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	return h
}

// refreshTranscript re-renders all entries into the viewport.
func (m *Chat) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(renderEntries(m.entries, m.debug))
}

// renderEntries formats the transcript. Split out for testing.
func renderEntries(entries []entry, debug bool) string {
	if len(entries) == 0 {
		return helpStyle.Render("Ask a question to get started.")
	}

	var blocks []string
	for _, e := range entries {
		var b strings.Builder
		b.WriteString(questionStyle.Render("You: " + e.question))
		b.WriteString("\n")

		if e.err != nil {
			b.WriteString(errorStyle.Render("Error: " + e.err.Error()))
			blocks = append(blocks, b.String())
			continue
		}

		b.WriteString(answerStyle.Render(e.answer.Answer))

		if debug {
			if len(e.answer.VectorContext) > 0 {
				var sources []string
				for _, c := range e.answer.VectorContext {
					sources = append(sources, fmt.Sprintf("%s#%d", c.Title(), c.ChunkIndex))
				}
				b.WriteString("\n")
				b.WriteString(sourceStyle.Render("Sources: " + strings.Join(sources, ", ")))
			}
			if e.answer.GraphContext != "" {
				b.WriteString("\n")
				b.WriteString(sourceStyle.Render("Graph:\n" + e.answer.GraphContext))
			}
		}

		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n")
}
