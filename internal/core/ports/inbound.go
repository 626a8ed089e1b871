package ports

import (
	"context"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// StrategyComparator is the sole caller-facing entry point: run up to three
// strategies against one question and return comparable results.
type StrategyComparator interface {
	Compare(ctx context.Context, question string, configs []domain.StrategyConfig) (*domain.ComparisonResult, error)
}
