package driving

import (
	"context"

	"github.com/docsage/docsage-cli/internal/core/domain"
)

// AnswerService produces grounded answers from the dual stores.
// Implementations are stateless across calls; each Answer is independent.
type AnswerService interface {
	// Answer gathers evidence from the vector index and the graph store
	// and composes a single grounded reply.
	Answer(ctx context.Context, question string) (domain.HybridAnswer, error)
}
