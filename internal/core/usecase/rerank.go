package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
	"github.com/kirillkom/rag-strategy-lab/internal/core/ports"
)

// crossEncoderRerank rescores every (question, candidate) pair with one
// JSON completion and reorders the set by the new scores. It never changes
// the identifier set. Any failure degrades to the input order with a
// degradation flag instead of failing the run.
func crossEncoderRerank(
	ctx context.Context,
	llm ports.CompletionClient,
	model string,
	question string,
	candidates []domain.RetrievedChunk,
	logger *slog.Logger,
) ([]domain.RetrievedChunk, bool) {
	if len(candidates) == 0 {
		return candidates, false
	}

	scores, err := rerankScores(ctx, llm, model, question, candidates)
	if err != nil {
		logger.Warn("rerank_degraded", "error", err)
		return candidates, true
	}

	out := make([]domain.RetrievedChunk, len(candidates))
	copy(out, candidates)
	for i := range out {
		out[i].Score = scores[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, false
}

func rerankScores(
	ctx context.Context,
	llm ports.CompletionClient,
	model string,
	question string,
	candidates []domain.RetrievedChunk,
) ([]float64, error) {
	raw, err := llm.CompleteJSON(ctx, buildRerankPrompt(question, candidates), model)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parse rerank json: %w", err)
	}
	if len(payload.Scores) != len(candidates) {
		return nil, fmt.Errorf("expected %d scores, got %d", len(candidates), len(payload.Scores))
	}
	for i, s := range payload.Scores {
		if s < 0 {
			payload.Scores[i] = 0
		}
		if s > 1 {
			payload.Scores[i] = 1
		}
	}
	return payload.Scores, nil
}
