package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// multiHopGenerator iteratively derives sub-questions from previous partial
// answers and re-invokes the retriever for each hop. It is the only style
// that reaches back into retrieval. Hops run strictly sequentially and are
// capped at maxHops; hitting the cap is flagged, not failed.
type multiHopGenerator struct {
	deps generatorDeps
}

type hopPlan struct {
	Sufficient  bool   `json:"sufficient"`
	SubQuestion string `json:"sub_question"`
}

func (g *multiHopGenerator) generate(ctx context.Context, question string, candidates []domain.RetrievedChunk) (*domain.GenerationResult, []domain.RetrievedChunk, error) {
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		seen[c.ChunkID] = struct{}{}
	}
	accumulated := make([]domain.RetrievedChunk, len(candidates))
	copy(accumulated, candidates)

	hops := make([]domain.HopTrace, 0, g.deps.maxHops)
	llmCalls := 0
	converged := false

	for hop := 1; hop <= g.deps.maxHops; hop++ {
		llmCalls++
		plan, err := g.plan(ctx, question, hops)
		if err != nil {
			return nil, accumulated, domain.WrapError(domain.ErrGenerationUnavailable, "hop planning", err)
		}
		if plan.Sufficient || strings.TrimSpace(plan.SubQuestion) == "" {
			converged = true
			break
		}

		subQuestion := strings.TrimSpace(plan.SubQuestion)
		chunks, _, err := g.deps.retriever.retrieve(ctx, subQuestion)
		if err != nil {
			return nil, accumulated, err
		}

		fresh := make([]domain.RetrievedChunk, 0, len(chunks))
		for _, c := range chunks {
			if _, ok := seen[c.ChunkID]; ok {
				continue
			}
			seen[c.ChunkID] = struct{}{}
			c.Source = joinSources(c.Source, fmt.Sprintf("hop_%d", hop))
			fresh = append(fresh, c)
		}
		if len(fresh) == 0 {
			hops = append(hops, domain.HopTrace{Hop: hop, SubQuestion: subQuestion})
			converged = true
			break
		}
		accumulated = append(accumulated, fresh...)

		llmCalls++
		partial, err := g.deps.llm.Complete(ctx, buildAnswerPrompt(subQuestion, fresh), g.deps.model)
		if err != nil {
			return nil, accumulated, domain.WrapError(domain.ErrGenerationUnavailable, "hop answer", err)
		}
		hops = append(hops, domain.HopTrace{
			Hop:           hop,
			SubQuestion:   subQuestion,
			PartialAnswer: partial,
			NewChunks:     len(fresh),
		})
	}

	var answer string
	var err error
	llmCalls++
	if len(hops) == 0 {
		answer, err = g.deps.llm.Complete(ctx, buildAnswerPrompt(question, accumulated), g.deps.model)
	} else {
		answer, err = g.deps.llm.Complete(ctx, buildSynthesisPrompt(question, hops), g.deps.model)
	}
	if err != nil {
		return nil, accumulated, domain.WrapError(domain.ErrGenerationUnavailable, "final synthesis", err)
	}

	return &domain.GenerationResult{
		Answer:       answer,
		Hops:         hops,
		NonConverged: !converged,
		LLMCalls:     llmCalls,
	}, accumulated, nil
}

func (g *multiHopGenerator) plan(ctx context.Context, question string, hops []domain.HopTrace) (hopPlan, error) {
	raw, err := g.deps.llm.CompleteJSON(ctx, buildHopPrompt(question, hops), g.deps.model)
	if err != nil {
		return hopPlan{}, err
	}
	var plan hopPlan
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &plan); err != nil {
		return hopPlan{}, fmt.Errorf("parse hop plan json: %w", err)
	}
	return plan, nil
}
