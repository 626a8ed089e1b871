package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
	"github.com/kirillkom/rag-strategy-lab/internal/core/ports"
)

// generator is the closed set of answer-synthesis variants. The returned
// chunk list is the candidate set actually used: every style except
// multi_hop returns the input unchanged.
type generator interface {
	generate(ctx context.Context, question string, candidates []domain.RetrievedChunk) (*domain.GenerationResult, []domain.RetrievedChunk, error)
}

type generatorDeps struct {
	llm    ports.CompletionClient
	model  string
	logger *slog.Logger

	// retriever is re-invoked only by the multi_hop style.
	retriever retriever
	maxHops   int
	samples   int
}

func newGenerator(style domain.GenerationStyle, deps generatorDeps) generator {
	switch style {
	case domain.GenerationFactVerification:
		return &factVerificationGenerator{deps: deps}
	case domain.GenerationMultiHop:
		return &multiHopGenerator{deps: deps}
	case domain.GenerationUncertainty:
		return &uncertaintyGenerator{deps: deps}
	default:
		return &standardGenerator{deps: deps}
	}
}

type standardGenerator struct {
	deps generatorDeps
}

func (g *standardGenerator) generate(ctx context.Context, question string, candidates []domain.RetrievedChunk) (*domain.GenerationResult, []domain.RetrievedChunk, error) {
	answer, err := g.deps.llm.Complete(ctx, buildAnswerPrompt(question, candidates), g.deps.model)
	if err != nil {
		return nil, candidates, domain.WrapError(domain.ErrGenerationUnavailable, "standard generation", err)
	}
	return &domain.GenerationResult{Answer: answer, LLMCalls: 1}, candidates, nil
}
