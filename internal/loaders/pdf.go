package loaders

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands through os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// extractPDF converts a PDF to plain text using pdftotext.
func (l *DirectoryLoader) extractPDF(ctx context.Context, path string) (string, error) {
	out, err := l.runner.Run(ctx, "pdftotext", path, "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("pdftotext not found: %s", InstallInstructions())
		}
		return "", fmt.Errorf("extract %s: %w", path, err)
	}
	return string(out), nil
}

// InstallInstructions returns platform hints for installing pdftotext.
func InstallInstructions() string {
	return "install poppler for PDF support: `brew install poppler` (macOS) or `apt install poppler-utils` (Debian/Ubuntu)"
}
