package knowledge

import (
	"context"

	"github.com/quetzal-chat/quetzal/internal/domain"
)

// KnowledgeRepository is the read side of the local knowledge base.
type KnowledgeRepository interface {
	// FindMatching returns every fact whose keyword is contained in the
	// case-normalized query. Which of several matches wins is decided by
	// the caller; the repository returns them all.
	FindMatching(ctx context.Context, query string) ([]domain.KnowledgeFact, error)
	Count(ctx context.Context) (int64, error)
	CreateInBatch(ctx context.Context, facts []domain.KnowledgeFact) error
}
