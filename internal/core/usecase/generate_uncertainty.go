package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// agreementThreshold is the pairwise token similarity above which two
// sampled answers count as agreeing.
const agreementThreshold = 0.5

// uncertaintyGenerator issues several independent completions with
// identical input, joins them, and derives a confidence score from the
// pairwise agreement of the sampled answers. The samples run concurrently;
// there is no ordering dependency between them.
type uncertaintyGenerator struct {
	deps generatorDeps
}

func (g *uncertaintyGenerator) generate(ctx context.Context, question string, candidates []domain.RetrievedChunk) (*domain.GenerationResult, []domain.RetrievedChunk, error) {
	samples := g.deps.samples
	if samples <= 0 {
		samples = 3
	}
	prompt := buildAnswerPrompt(question, candidates)

	answers := make([]string, samples)
	errs := make([]error, samples)
	var group errgroup.Group
	for i := 0; i < samples; i++ {
		group.Go(func() error {
			answers[i], errs[i] = g.deps.llm.Complete(ctx, prompt, g.deps.model)
			return nil
		})
	}
	_ = group.Wait()

	kept := make([]string, 0, samples)
	var firstErr error
	for i := 0; i < samples; i++ {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		kept = append(kept, answers[i])
	}
	if len(kept) == 0 {
		return nil, candidates, domain.WrapError(domain.ErrGenerationUnavailable, "uncertainty sampling", firstErr)
	}

	answer, confidence := aggregateSamples(kept)
	return &domain.GenerationResult{
		Answer:     answer,
		Samples:    kept,
		Confidence: &confidence,
		LLMCalls:   samples,
	}, candidates, nil
}

// aggregateSamples picks the answer that agrees most with its peers and
// computes confidence as the fraction of agreeing pairs. Identical answers
// yield confidence 1; a single surviving sample is trivially unanimous.
func aggregateSamples(samples []string) (string, float64) {
	if len(samples) == 1 {
		return samples[0], 1
	}

	pairs := 0
	agreeing := 0
	agreement := make([]float64, len(samples))
	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			sim := tokenJaccard(samples[i], samples[j])
			agreement[i] += sim
			agreement[j] += sim
			pairs++
			if sim >= agreementThreshold {
				agreeing++
			}
		}
	}

	best := 0
	for i := 1; i < len(samples); i++ {
		if agreement[i] > agreement[best] {
			best = i
		}
	}
	return samples[best], float64(agreeing) / float64(pairs)
}
