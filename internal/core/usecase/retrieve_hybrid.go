package usecase

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// hybridRetriever fuses vector and keyword retrieval with weighted score
// fusion: both lists are min-max normalized to [0,1] and combined with
// vectorWeight, ties broken by keyword rank.
type hybridRetriever struct {
	deps retrieverDeps
}

func (r *hybridRetriever) retrieve(ctx context.Context, question string) ([]domain.RetrievedChunk, []domain.Degradation, error) {
	var semantic, lexical []domain.RetrievedChunk

	g, searchCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chunks, err := vectorSearch(searchCtx, r.deps, question, sourceVector)
		if err != nil {
			return err
		}
		semantic = chunks
		return nil
	})
	g.Go(func() error {
		chunks, err := r.deps.keyword.Search(searchCtx, question, r.deps.topK)
		if err != nil {
			return domain.WrapError(domain.ErrRetrievalUnavailable, "keyword index search", err)
		}
		lexical = make([]domain.RetrievedChunk, len(chunks))
		copy(lexical, chunks)
		for i := range lexical {
			lexical[i].Source = sourceKeyword
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// The fused union is returned whole: both inputs are already capped at
	// topK, so the result is bounded at twice that, and trimming here would
	// drop ids that a single-method run for the same query surfaces.
	return fuseWeighted(semantic, lexical, r.deps.vectorWeight), nil, nil
}

func fuseWeighted(semantic, lexical []domain.RetrievedChunk, vectorWeight float64) []domain.RetrievedChunk {
	if vectorWeight <= 0 || vectorWeight >= 1 {
		vectorWeight = 0.5
	}
	semantic = normalizeScores(semantic)
	lexical = normalizeScores(lexical)

	type fused struct {
		chunk       domain.RetrievedChunk
		keywordRank int
	}
	noKeywordRank := len(lexical) + len(semantic) + 1

	acc := make(map[string]fused, len(semantic)+len(lexical))
	order := make([]string, 0, len(semantic)+len(lexical))

	for _, chunk := range semantic {
		c := chunk
		c.Score = vectorWeight * chunk.Score
		acc[chunk.ChunkID] = fused{chunk: c, keywordRank: noKeywordRank}
		order = append(order, chunk.ChunkID)
	}
	for rank, chunk := range lexical {
		entry, ok := acc[chunk.ChunkID]
		if !ok {
			c := chunk
			c.Score = (1 - vectorWeight) * chunk.Score
			acc[chunk.ChunkID] = fused{chunk: c, keywordRank: rank}
			order = append(order, chunk.ChunkID)
			continue
		}
		entry.chunk.Score += (1 - vectorWeight) * chunk.Score
		entry.chunk.Source = joinSources(entry.chunk.Source, chunk.Source)
		entry.keywordRank = rank
		if entry.chunk.Text == "" {
			entry.chunk.Text = chunk.Text
		}
		acc[chunk.ChunkID] = entry
	}

	out := make([]domain.RetrievedChunk, 0, len(order))
	for _, id := range order {
		out = append(out, acc[id].chunk)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return acc[out[i].ChunkID].keywordRank < acc[out[j].ChunkID].keywordRank
	})
	return out
}
