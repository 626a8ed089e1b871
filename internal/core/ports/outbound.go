package ports

import (
	"context"
	"io"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// Embedder turns query text into a fixed-length vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex performs nearest-neighbour search against the prebuilt
// semantic index. The engine only reads the index, never rebuilds it.
type VectorIndex interface {
	Search(ctx context.Context, queryVector []float32, limit int) ([]domain.RetrievedChunk, error)
}

// KeywordIndex performs lexical (BM25-style) search and chunk lookup
// against the prebuilt keyword index.
type KeywordIndex interface {
	Search(ctx context.Context, queryText string, limit int) ([]domain.RetrievedChunk, error)
	FetchChunk(ctx context.Context, chunkID string) (string, error)
}

// CompletionClient is the opaque LLM collaborator, parameterized per call
// by model identifier.
type CompletionClient interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
	CompleteJSON(ctx context.Context, prompt, model string) (string, error)
}

// EventPublisher announces finished comparisons to downstream consumers.
type EventPublisher interface {
	PublishComparisonCompleted(ctx context.Context, result *domain.ComparisonResult) error
}

// ReportSink stores rendered comparison artifacts.
type ReportSink interface {
	Save(ctx context.Context, key string, data io.Reader) error
}
