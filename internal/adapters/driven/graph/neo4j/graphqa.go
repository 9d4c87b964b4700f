package neo4j

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/docsage/docsage-cli/internal/core/domain"
	"github.com/docsage/docsage-cli/internal/core/ports/driven"
)

// writeClauseRe flags cypher clauses that mutate the database. Generated
// queries matching it are rejected unless dangerous requests are allowed.
var writeClauseRe = regexp.MustCompile(`(?i)\b(create|merge|delete|detach|set|remove|drop|foreach)\b`)

// GraphQA answers a question by asking the chat model to generate a cypher
// query against the fixed schema, executing it read-only, and verbalising
// the rows. Failures are wrapped in ErrGraphQA so callers can degrade to a
// vector-only answer.
func (s *Store) GraphQA(ctx context.Context, question string) (domain.GraphAnswer, error) {
	cypher, err := s.generateCypher(ctx, question)
	if err != nil {
		return domain.GraphAnswer{}, err
	}

	if !s.allowDangerous && writeClauseRe.MatchString(cypher) {
		return domain.GraphAnswer{}, fmt.Errorf("%w: generated query contains a write clause: %s", domain.ErrGraphQA, cypher)
	}

	rows, err := s.run.Read(ctx, cypher, nil)
	if err != nil {
		return domain.GraphAnswer{}, fmt.Errorf("%w: execute generated query: %w", domain.ErrGraphQA, err)
	}
	if len(rows) > s.maxRows {
		rows = rows[:s.maxRows]
	}

	rendered := make([]string, 0, len(rows))
	for _, row := range rows {
		rendered = append(rendered, renderRow(row))
	}

	result, err := s.verbalise(ctx, question, rendered)
	if err != nil {
		return domain.GraphAnswer{}, err
	}

	intermediate := append([]string{cypher}, rendered...)
	return domain.GraphAnswer{Result: result, Intermediate: intermediate}, nil
}

func (s *Store) generateCypher(ctx context.Context, question string) (string, error) {
	template, err := s.prompts.Load(driven.PromptCypherGen)
	if err != nil {
		return "", fmt.Errorf("%w: load cypher prompt: %w", domain.ErrGraphQA, err)
	}

	raw, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleUser, Content: fmt.Sprintf(template, schemaDescription, question)},
	}, driven.ChatOptions{Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("%w: generate cypher: %w", domain.ErrGraphQA, err)
	}

	cypher := stripCodeFences(raw)
	if cypher == "" {
		return "", fmt.Errorf("%w: model returned an empty query", domain.ErrGraphQA)
	}
	return cypher, nil
}

func (s *Store) verbalise(ctx context.Context, question string, rows []string) (string, error) {
	template, err := s.prompts.Load(driven.PromptGraphVerbalize)
	if err != nil {
		return "", fmt.Errorf("%w: load verbalise prompt: %w", domain.ErrGraphQA, err)
	}

	rowsText := "(no rows)"
	if len(rows) > 0 {
		rowsText = strings.Join(rows, "\n")
	}

	result, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleUser, Content: fmt.Sprintf(template, question, rowsText)},
	}, driven.ChatOptions{Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("%w: verbalise rows: %w", domain.ErrGraphQA, err)
	}
	return strings.TrimSpace(result), nil
}

// stripCodeFences unwraps a ``` block if the model wrapped its query in
// one and trims surrounding whitespace.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```cypher")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}

// renderRow formats a result row with keys in stable order.
func renderRow(row map[string]any) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, row[k]))
	}
	return strings.Join(parts, ", ")
}
