package usecase

import (
	"context"
	"log/slog"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
	"github.com/kirillkom/rag-strategy-lab/internal/core/ports"
)

// strategyPipeline binds one retriever, the optional reranker and one
// generator to a single StrategyConfig. Component failures are captured
// into the returned result; nothing escapes the pipeline boundary, so one
// strategy can never abort its siblings.
type strategyPipeline struct {
	config    domain.StrategyConfig
	retriever retriever
	generator generator
	llm       ports.CompletionClient
	logger    *slog.Logger
}

func newStrategyPipeline(
	config domain.StrategyConfig,
	deps retrieverDeps,
	maxHops, samples int,
) *strategyPipeline {
	deps.model = config.LLMModel
	ret := newRetriever(config.RetrievalMethod, deps)
	gen := newGenerator(config.GenerationStyle, generatorDeps{
		llm:       deps.llm,
		model:     config.LLMModel,
		logger:    deps.logger,
		retriever: ret,
		maxHops:   maxHops,
		samples:   samples,
	})
	return &strategyPipeline{
		config:    config,
		retriever: ret,
		generator: gen,
		llm:       deps.llm,
		logger:    deps.logger,
	}
}

func (p *strategyPipeline) run(ctx context.Context, question string) domain.StrategyRunResult {
	result := domain.StrategyRunResult{Config: p.config}

	candidates, degradations, err := p.retriever.retrieve(ctx, question)
	result.Degradations = degradations
	if err != nil {
		result.Failure = domain.FailureFromError(p.timeoutAware(ctx, err))
		return result
	}
	result.Candidates = candidates

	if p.config.Rerank {
		reranked, degraded := crossEncoderRerank(ctx, p.llm, p.config.LLMModel, question, candidates, p.logger)
		if degraded {
			result.Degradations = append(result.Degradations, domain.DegradationRerankSkipped)
		}
		candidates = reranked
		result.Candidates = reranked
	}

	generation, used, err := p.generator.generate(ctx, question, candidates)
	if len(used) > 0 {
		result.Candidates = used
	}
	if err != nil {
		result.Failure = domain.FailureFromError(p.timeoutAware(ctx, err))
		return result
	}
	result.Generation = generation
	return result
}

// timeoutAware reclassifies component errors caused by the per-pipeline
// deadline so the run is marked as a timeout rather than a component
// outage.
func (p *strategyPipeline) timeoutAware(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return domain.WrapError(domain.ErrTimeout, "pipeline run", err)
	}
	return err
}
