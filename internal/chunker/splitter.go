// Package chunker splits documents into overlapping chunks with
// deterministic identity.
package chunker

import (
	"crypto/md5" //nolint:gosec // chunk ids are content fingerprints, not security material
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
)

// Ensure Splitter implements the interface.
var _ driven.DocumentSplitter = (*Splitter)(nil)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 900

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 150

// separators is the ordered preference list for recursive splitting.
// Paragraphs first, then lines, then sentence boundaries, then words.
// The empty string is the terminal splitter guaranteeing progress.
var separators = []string{"\n\n", "\n", " . ", " ", ""}

// Splitter performs recursive character splitting over documents.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		s.chunkSize = size
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in characters.
func WithChunkOverlap(overlap int) Option {
	return func(s *Splitter) {
		s.overlap = overlap
	}
}

// New creates a splitter. Invalid parameters are domain.ErrConfig.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfig, s.chunkSize)
	}
	if s.overlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrConfig, s.overlap)
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrConfig, s.overlap, s.chunkSize)
	}

	return s, nil
}

// Split chunks the documents in order. The chunk index is a running counter
// across the entire pass, and the chunk id is the md5 hash of the final
// chunk text, so identical content always maps to the same id.
func (s *Splitter) Split(docs []domain.Document) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	index := 0

	for i, doc := range docs {
		if strings.TrimSpace(doc.PageContent) == "" {
			continue
		}

		source := doc.Source()
		if source == "" {
			source = fmt.Sprintf("doc_%d", i)
		}

		for _, text := range s.splitText(doc.PageContent, separators) {
			if strings.TrimSpace(text) == "" {
				continue
			}
			sum := md5.Sum([]byte(text)) //nolint:gosec // see package note on ids
			chunks = append(chunks, domain.Chunk{
				ChunkID:      hex.EncodeToString(sum[:]),
				DocID:        domain.DocStem(source),
				DocumentName: filepath.Base(source),
				SourcePath:   source,
				ChunkIndex:   index,
				Text:         text,
			})
			index++
		}
	}

	return chunks, nil
}

// splitText recursively splits text with the given separator preference
// list until every chunk fits the target size, then merges adjacent pieces
// back together with the configured overlap.
func (s *Splitter) splitText(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.chunkSize {
		return []string{text}
	}

	sep, rest := pickSeparator(text, seps)
	if sep == "" {
		return s.windows(text)
	}

	var pieces []string
	for _, part := range strings.Split(text, sep) {
		if utf8.RuneCountInString(part) <= s.chunkSize {
			pieces = append(pieces, part)
			continue
		}
		pieces = append(pieces, s.splitText(part, rest)...)
	}

	return s.merge(pieces, sep)
}

// pickSeparator returns the first separator present in the text and the
// finer separators remaining after it. The empty string always matches.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}

// merge joins pieces into chunks no larger than the target size. When a
// chunk closes, the tail of it seeds the next chunk so consecutive chunks
// share exactly the configured overlap. A seeded chunk may exceed the
// target by at most the overlap plus the separator width.
func (s *Splitter) merge(pieces []string, sep string) []string {
	var out []string
	current := ""

	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if current == "" {
			current = piece
			continue
		}

		candidate := current + sep + piece
		if utf8.RuneCountInString(candidate) <= s.chunkSize {
			current = candidate
			continue
		}

		out = append(out, current)
		if seed := tail(current, s.overlap); seed != "" {
			current = seed + sep + piece
		} else {
			current = piece
		}
	}

	if current != "" {
		out = append(out, current)
	}
	return out
}

// windows is the terminal splitter: fixed-size rune windows advancing by
// chunkSize-overlap so consecutive windows overlap exactly.
func (s *Splitter) windows(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// tail returns the last n runes of text.
func tail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(text)
	if n >= len(runes) {
		return text
	}
	return string(runes[len(runes)-n:])
}
