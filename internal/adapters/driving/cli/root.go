// Package cli implements the docsage command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Exit codes.
const (
	ExitOK     = 0
	ExitError  = 1
	ExitConfig = 2
)

var (
	flagVerbose bool
	flagEnvFile string
)

var rootCmd = &cobra.Command{
	Use:   "docsage",
	Short: "Question answering over a local document corpus",
	Long: `docsage indexes a local document corpus into a vector store and a
Neo4j chunk graph, then answers questions by combining similarity search
with graph queries generated by a local chat model.

Models are served by Ollama; no data leaves your machine except for the
configured Neo4j endpoint.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "dotenv file to load settings from")
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command and maps failures to exit codes:
// 0 on success, 2 for configuration problems, 1 for everything else.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	switch {
	case errors.Is(err, domain.ErrConfig):
		return ExitConfig
	case errors.Is(err, domain.ErrNotIndexed):
		fmt.Fprintln(os.Stderr, "Run `docsage ingest` to build the index first.")
		return ExitError
	default:
		return ExitError
	}
}
