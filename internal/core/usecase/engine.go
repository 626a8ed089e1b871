package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
	"github.com/kirillkom/rag-strategy-lab/internal/core/ports"
)

// MaxStrategies is the engine-level fan-out cap. The comparison view lays
// strategies out in columns and tops out at three.
const MaxStrategies = 3

type CompareOptions struct {
	TopK               int
	MultiQueryVariants int
	HybridVectorWeight float64
	MaxHops            int
	UncertaintySamples int
	PipelineTimeout    time.Duration
}

func (o CompareOptions) normalize() CompareOptions {
	out := o
	if out.TopK <= 0 {
		out.TopK = 5
	}
	if out.MultiQueryVariants <= 0 {
		out.MultiQueryVariants = 3
	}
	if out.HybridVectorWeight <= 0 || out.HybridVectorWeight >= 1 {
		out.HybridVectorWeight = 0.5
	}
	if out.MaxHops <= 0 {
		out.MaxHops = 3
	}
	if out.UncertaintySamples <= 0 {
		out.UncertaintySamples = 3
	}
	if out.PipelineTimeout <= 0 {
		out.PipelineTimeout = 90 * time.Second
	}
	return out
}

// ComparisonObserver receives completed runs for metric recording.
type ComparisonObserver interface {
	ObserveStrategyRun(result domain.StrategyRunResult)
	ObserveComparison(result *domain.ComparisonResult)
}

// CompareUseCase is the strategy execution engine: it validates input,
// fans out one isolated pipeline per config, joins them and assembles the
// result bundle in submission order.
type CompareUseCase struct {
	embedder ports.Embedder
	vector   ports.VectorIndex
	keyword  ports.KeywordIndex
	llm      ports.CompletionClient
	events   ports.EventPublisher
	observer ComparisonObserver
	logger   *slog.Logger
	opts     CompareOptions
}

func NewCompareUseCase(
	embedder ports.Embedder,
	vector ports.VectorIndex,
	keyword ports.KeywordIndex,
	llm ports.CompletionClient,
	events ports.EventPublisher,
	observer ComparisonObserver,
	logger *slog.Logger,
	opts CompareOptions,
) *CompareUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CompareUseCase{
		embedder: embedder,
		vector:   vector,
		keyword:  keyword,
		llm:      llm,
		events:   events,
		observer: observer,
		logger:   logger,
		opts:     opts.normalize(),
	}
}

// Compare runs every submitted strategy concurrently against the question.
// Validation failures abort before any pipeline work starts; after
// dispatch, individual strategy failures are captured per run and the
// comparison always completes.
func (uc *CompareUseCase) Compare(ctx context.Context, question string, configs []domain.StrategyConfig) (*domain.ComparisonResult, error) {
	if strings.TrimSpace(question) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compare", fmt.Errorf("question is empty"))
	}
	if len(configs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "compare", fmt.Errorf("at least one strategy is required"))
	}
	if len(configs) > MaxStrategies {
		return nil, domain.WrapError(domain.ErrTooManyStrategies, "compare", fmt.Errorf("%d strategies submitted, limit is %d", len(configs), MaxStrategies))
	}
	for i, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("strategy %d: %w", i, err)
		}
	}

	pipelines := make([]*strategyPipeline, len(configs))
	for i, cfg := range configs {
		pipelines[i] = newStrategyPipeline(cfg, retrieverDeps{
			embedder:     uc.embedder,
			vector:       uc.vector,
			keyword:      uc.keyword,
			llm:          uc.llm,
			logger:       uc.logger.With("strategy", i),
			topK:         uc.opts.TopK,
			variants:     uc.opts.MultiQueryVariants,
			vectorWeight: uc.opts.HybridVectorWeight,
		}, uc.opts.MaxHops, uc.opts.UncertaintySamples)
	}

	// Pipelines never return an error: each one's failure is captured in
	// its own slot, so a slow or broken strategy cannot cancel siblings.
	runs := make([]domain.StrategyRunResult, len(pipelines))
	var group errgroup.Group
	for i, pipe := range pipelines {
		group.Go(func() error {
			runs[i] = uc.runPipeline(ctx, pipe, question)
			return nil
		})
	}
	_ = group.Wait()

	result := &domain.ComparisonResult{
		ID:        uuid.NewString(),
		Question:  question,
		Runs:      runs,
		CreatedAt: time.Now().UTC(),
	}

	if uc.observer != nil {
		uc.observer.ObserveComparison(result)
	}
	uc.publish(ctx, result)
	return result, nil
}

func (uc *CompareUseCase) runPipeline(ctx context.Context, pipe *strategyPipeline, question string) domain.StrategyRunResult {
	runCtx, cancel := context.WithTimeout(ctx, uc.opts.PipelineTimeout)
	defer cancel()

	start := time.Now()
	result := pipe.run(runCtx, question)
	result.ElapsedMS = time.Since(start).Milliseconds()

	// Cost class stays undefined for timed-out runs.
	if result.Failure == nil || result.Failure.Kind != "timeout" {
		result.CostClass = classifyCost(pipe.config.GenerationStyle, pipe.config.LLMModel, pipe.config.RetrievalMethod)
	}

	if result.Failure != nil {
		uc.logger.Warn("strategy_run_failed",
			"retrieval_method", pipe.config.RetrievalMethod,
			"generation_style", pipe.config.GenerationStyle,
			"failure_kind", result.Failure.Kind,
			"elapsed_ms", result.ElapsedMS,
		)
	}
	if uc.observer != nil {
		uc.observer.ObserveStrategyRun(result)
	}
	return result
}

func (uc *CompareUseCase) publish(ctx context.Context, result *domain.ComparisonResult) {
	if uc.events == nil {
		return
	}
	if err := uc.events.PublishComparisonCompleted(ctx, result); err != nil {
		uc.logger.Warn("publish_comparison_failed", "comparison_id", result.ID, "error", err)
	}
}
