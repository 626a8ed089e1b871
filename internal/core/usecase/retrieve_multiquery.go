package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// multiQueryRetriever expands the question into paraphrased variants and
// merges one vector retrieval per variant. When expansion fails it degrades
// to plain vector retrieval instead of failing the run.
type multiQueryRetriever struct {
	deps retrieverDeps
}

func (r *multiQueryRetriever) retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, []domain.Degradation, error) {
	variants, err := r.expand(ctx, question)
	if err != nil {
		r.deps.logger.Warn("query_expansion_degraded", "error", err)
		chunks, searchErr := vectorSearch(ctx, r.deps, question, sourceVector)
		if searchErr != nil {
			return nil, nil, searchErr
		}
		return chunks, []domain.Degradation{domain.DegradationExpansionSkipped}, nil
	}

	queries := append([]string{question}, variants...)
	lists := make([][]domain.RetrievedChunk, len(queries))

	g, searchCtx := errgroup.WithContext(ctx)
	for i, query := range queries {
		source := sourceVector
		if i > 0 {
			source = fmt.Sprintf("variant_%d", i)
		}
		g.Go(func() error {
			chunks, err := vectorSearch(searchCtx, r.deps, query, source)
			if err != nil {
				return err
			}
			lists[i] = chunks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return trimCandidates(mergeMaxScore(lists...), r.deps.topK), nil, nil
}

func (r *multiQueryRetriever) expand(ctx context.Context, question string) ([]string, error) {
	raw, err := r.deps.llm.CompleteJSON(ctx, buildExpansionPrompt(question, r.deps.variants), r.deps.model)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Variants []string `json:"variants"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parse expansion json: %w", err)
	}

	variants := make([]string, 0, r.deps.variants)
	for _, v := range payload.Variants {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		variants = append(variants, v)
		if len(variants) == r.deps.variants {
			break
		}
	}
	if len(variants) < r.deps.variants {
		return nil, fmt.Errorf("expected %d variants, got %d", r.deps.variants, len(variants))
	}
	return variants, nil
}
