package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// factVerificationGenerator produces a standard answer, then cross-checks
// each factual claim in it against the retrieved context with a second
// completion and annotates the answer with per-claim verdicts.
type factVerificationGenerator struct {
	deps generatorDeps
}

func (g *factVerificationGenerator) generate(ctx context.Context, question string, candidates []domain.RetrievedChunk) (*domain.GenerationResult, []domain.RetrievedChunk, error) {
	answer, err := g.deps.llm.Complete(ctx, buildAnswerPrompt(question, candidates), g.deps.model)
	if err != nil {
		return nil, candidates, domain.WrapError(domain.ErrGenerationUnavailable, "draft generation", err)
	}

	raw, err := g.deps.llm.CompleteJSON(ctx, buildVerificationPrompt(answer, candidates), g.deps.model)
	if err != nil {
		return nil, candidates, domain.WrapError(domain.ErrGenerationUnavailable, "claim verification", err)
	}

	claims, err := parseVerifiedClaims(raw)
	if err != nil {
		return nil, candidates, domain.WrapError(domain.ErrGenerationUnavailable, "claim verification", err)
	}

	return &domain.GenerationResult{
		Answer:   answer,
		Claims:   claims,
		LLMCalls: 2,
	}, candidates, nil
}

func parseVerifiedClaims(raw string) ([]domain.VerifiedClaim, error) {
	var payload struct {
		Claims []struct {
			Claim   string `json:"claim"`
			Verdict string `json:"verdict"`
		} `json:"claims"`
	}
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &payload); err != nil {
		return nil, fmt.Errorf("parse verification json: %w", err)
	}

	out := make([]domain.VerifiedClaim, 0, len(payload.Claims))
	for _, c := range payload.Claims {
		claim := strings.TrimSpace(c.Claim)
		if claim == "" {
			continue
		}
		out = append(out, domain.VerifiedClaim{
			Claim:   claim,
			Verdict: normalizeVerdict(c.Verdict),
		})
	}
	return out, nil
}

func normalizeVerdict(raw string) domain.ClaimVerdict {
	switch domain.ClaimVerdict(strings.ToLower(strings.TrimSpace(raw))) {
	case domain.VerdictSupported:
		return domain.VerdictSupported
	case domain.VerdictUnsupported:
		return domain.VerdictUnsupported
	default:
		return domain.VerdictPartiallySupported
	}
}
