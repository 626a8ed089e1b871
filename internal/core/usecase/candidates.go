package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// mergeMaxScore deduplicates candidate lists by chunk id, keeping the
// maximum score seen for a duplicate. Order of the merged set is by
// descending score, ties broken by first-seen rank (stable).
func mergeMaxScore(lists ...[]domain.RetrievedChunk) []domain.RetrievedChunk {
	type slot struct {
		chunk domain.RetrievedChunk
		rank  int
	}

	acc := make(map[string]slot)
	order := make([]string, 0, 16)
	rank := 0
	for _, list := range lists {
		for _, chunk := range list {
			existing, ok := acc[chunk.ChunkID]
			if !ok {
				acc[chunk.ChunkID] = slot{chunk: chunk, rank: rank}
				order = append(order, chunk.ChunkID)
				rank++
				continue
			}
			if chunk.Score > existing.chunk.Score {
				src := existing.chunk.Source
				existing.chunk = chunk
				existing.chunk.Source = joinSources(src, chunk.Source)
			} else {
				existing.chunk.Source = joinSources(existing.chunk.Source, chunk.Source)
			}
			acc[chunk.ChunkID] = existing
		}
	}

	out := make([]domain.RetrievedChunk, 0, len(order))
	for _, id := range order {
		out = append(out, acc[id].chunk)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return acc[out[i].ChunkID].rank < acc[out[j].ChunkID].rank
	})
	return out
}

func joinSources(a, b string) string {
	if a == "" || a == b {
		return b
	}
	if b == "" {
		return a
	}
	for _, part := range strings.Split(a, "+") {
		if part == b {
			return a
		}
	}
	return a + "+" + b
}

// normalizeScores maps a ranked list's scores into [0,1] by min-max. A
// degenerate range maps every positive score to 1.
func normalizeScores(chunks []domain.RetrievedChunk) []domain.RetrievedChunk {
	if len(chunks) == 0 {
		return chunks
	}
	minScore, maxScore := chunks[0].Score, chunks[0].Score
	for _, c := range chunks[1:] {
		if c.Score < minScore {
			minScore = c.Score
		}
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	scoreRange := maxScore - minScore

	out := make([]domain.RetrievedChunk, len(chunks))
	copy(out, chunks)
	for i := range out {
		if scoreRange <= 0 {
			if out[i].Score > 0 {
				out[i].Score = 1
			} else {
				out[i].Score = 0
			}
			continue
		}
		out[i].Score = (out[i].Score - minScore) / scoreRange
	}
	return out
}

func trimCandidates(chunks []domain.RetrievedChunk, limit int) []domain.RetrievedChunk {
	if limit <= 0 || len(chunks) <= limit {
		return chunks
	}
	return chunks[:limit]
}

func toTokenSet(s string) map[string]struct{} {
	tokens := splitAlphaNumLower(s)
	out := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		out[token] = struct{}{}
	}
	return out
}

// tokenJaccard is the similarity measure used for uncertainty agreement:
// |A∩B| / |A∪B| over lowercase alphanumeric tokens.
func tokenJaccard(a, b string) float64 {
	setA := toTokenSet(a)
	setB := toTokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	matches := 0
	for token := range setA {
		if _, ok := setB[token]; ok {
			matches++
		}
	}
	union := len(setA) + len(setB) - matches
	return float64(matches) / float64(union)
}

func splitAlphaNumLower(s string) []string {
	if s == "" {
		return nil
	}

	tokens := make([]string, 0, 16)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}
