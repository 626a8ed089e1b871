package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
	"github.com/kirillkom/rag-strategy-lab/internal/core/ports"
)

const (
	sourceVector  = "vector"
	sourceKeyword = "keyword"
)

// retriever is the closed set of retrieval variants. Implementations
// return the ranked, deduplicated candidate set for one query plus any
// non-fatal degradations taken along the way.
type retriever interface {
	retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, []domain.Degradation, error)
}

type retrieverDeps struct {
	embedder ports.Embedder
	vector   ports.VectorIndex
	keyword  ports.KeywordIndex
	llm      ports.CompletionClient
	logger   *slog.Logger

	topK         int
	variants     int
	vectorWeight float64
	model        string
}

func newRetriever(method domain.RetrievalMethod, deps retrieverDeps) retriever {
	switch method {
	case domain.RetrievalMultiQuery:
		return &multiQueryRetriever{deps: deps}
	case domain.RetrievalHybrid:
		return &hybridRetriever{deps: deps}
	default:
		return &vectorRetriever{deps: deps}
	}
}

type vectorRetriever struct {
	deps retrieverDeps
}

func (r *vectorRetriever) retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, []domain.Degradation, error) {
	chunks, err := vectorSearch(ctx, r.deps, question, sourceVector)
	if err != nil {
		return nil, nil, err
	}
	return chunks, nil, nil
}

func vectorSearch(ctx context.Context, deps retrieverDeps, query, source string) ([]domain.RetrievedChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "vector search", fmt.Errorf("query is empty"))
	}

	queryVector, err := deps.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "embed query", err)
	}

	chunks, err := deps.vector.Search(ctx, queryVector, deps.topK)
	if err != nil {
		return nil, domain.WrapError(domain.ErrRetrievalUnavailable, "vector index search", err)
	}

	out := make([]domain.RetrievedChunk, len(chunks))
	copy(out, chunks)
	for i := range out {
		out[i].Source = source
	}
	return out, nil
}
