// Package loaders reads a document corpus from a local directory.
// Markdown and plain text files are used as-is, HTML is stripped to
// readable text and PDFs are extracted with the pdftotext tool.
package loaders

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
	"github.com/docsage/docsage-cli/internal/logger"
)

// Ensure DirectoryLoader implements the interface.
var _ driven.CorpusLoader = (*DirectoryLoader)(nil)

// supportedExtensions lists the file types picked up by a corpus walk.
var supportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".text":     true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
}

// DirectoryLoader loads every supported file under a directory tree.
type DirectoryLoader struct {
	runner CommandRunner
}

// Option configures a DirectoryLoader.
type Option func(*DirectoryLoader)

// WithCommandRunner overrides the external command runner. Useful for
// testing PDF extraction without pdftotext installed.
func WithCommandRunner(r CommandRunner) Option {
	return func(l *DirectoryLoader) {
		l.runner = r
	}
}

// NewDirectoryLoader creates a new directory loader.
func NewDirectoryLoader(opts ...Option) *DirectoryLoader {
	l := &DirectoryLoader{runner: execRunner{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load walks dir and reads every supported file. Files are returned in
// sorted path order so repeated ingests see the same corpus ordering.
func (l *DirectoryLoader) Load(ctx context.Context, dir string) ([]domain.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: data directory %s: %w", domain.ErrIngest, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrIngest, dir)
	}

	var paths []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", domain.ErrIngest, dir, walkErr)
	}
	sort.Strings(paths)
	logger.Debug("Corpus walk: %d supported files under %s", len(paths), dir)

	// Files are independent, so read them in parallel into fixed slots.
	docs := make([]domain.Document, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := l.read(ctx, path)
			if err != nil {
				errs[i] = err
				return
			}
			docs[i] = domain.Document{
				PageContent: text,
				Metadata:    map[string]string{domain.MetadataSource: path},
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrIngest, err)
		}
	}

	return docs, nil
}

// read extracts the text content of a single file based on its extension.
func (l *DirectoryLoader) read(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return l.extractPDF(ctx, path)
	case ".html", ".htm":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return stripHTML(string(data)), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
}
