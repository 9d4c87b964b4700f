package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/docsage/docsage-cli/internal/adapters/driving/tui"
)

var (
	flagQuestion string
	flagDebug    bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about the indexed corpus",
	Long: `Answers questions by combining vector similarity search with graph
queries generated against the chunk graph.

With --question a single answer is printed and the command exits.
Without it an interactive chat session opens.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&flagQuestion, "question", "q", "", "ask a single question and exit")
	chatCmd.Flags().BoolVar(&flagDebug, "debug", false, "print retrieved contexts alongside the answer")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	pipe, err := buildPipeline()
	if err != nil {
		return err
	}
	defer pipe.Close(cmd.Context())

	svc, err := pipe.answerService(cmd.Context())
	if err != nil {
		return err
	}

	if flagQuestion != "" {
		return answerOnce(cmd, svc)
	}
	return runChatTUI(cmd, svc)
}

func answerOnce(cmd *cobra.Command, svc tuiAnswerer) error {
	answer, err := svc.Answer(cmd.Context(), flagQuestion)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	if flagDebug {
		cmd.Println("--- Vector context ---")
		for _, c := range answer.VectorContext {
			cmd.Printf("[%s#%d]\n%s\n\n", c.Title(), c.ChunkIndex, c.Text)
		}
		cmd.Println("--- Graph context ---")
		if answer.GraphContext == "" {
			cmd.Println("(empty)")
		} else {
			cmd.Println(answer.GraphContext)
		}
		cmd.Println("--- Answer ---")
	}

	cmd.Println(answer.Answer)
	return nil
}

// tuiAnswerer narrows the answer service to what the chat surfaces need.
type tuiAnswerer = tui.Answerer

func runChatTUI(cmd *cobra.Command, svc tuiAnswerer) error {
	// Recover to surface stack traces from rendering bugs.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	model := tui.NewChat(svc, flagDebug)
	model.WithContext(cmd.Context())

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat TUI: %w", err)
	}
	return nil
}
