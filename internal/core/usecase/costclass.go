package usecase

import (
	"strings"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// Model tiers for cost classification. Unknown models fall into the
// standard tier. The table keys on model id prefixes so versioned ids
// ("gpt-4o-2024-11-20") classify the same as their family.
var modelTierPrefixes = []struct {
	prefix string
	tier   int
}{
	{"gpt-4o-mini", 1},
	{"gpt-4.1-mini", 1},
	{"gpt-3.5", 1},
	{"llama3", 1},
	{"mistral", 1},
	{"phi", 1},
	{"gpt-4o", 3},
	{"gpt-4", 3},
	{"o1", 3},
	{"o3", 3},
	{"claude-3-opus", 3},
	{"claude-opus", 3},
	{"deepseek-r1", 3},
}

const defaultModelTier = 2

func modelTier(model string) int {
	model = strings.ToLower(strings.TrimSpace(model))
	for _, entry := range modelTierPrefixes {
		if strings.HasPrefix(model, entry.prefix) {
			return entry.tier
		}
	}
	return defaultModelTier
}

// styleCallWeight is the nominal completion count of each generation style.
func styleCallWeight(style domain.GenerationStyle) int {
	switch style {
	case domain.GenerationFactVerification:
		return 2
	case domain.GenerationMultiHop:
		return 3
	case domain.GenerationUncertainty:
		return 3
	default:
		return 1
	}
}

// methodCallWeight adds the extra completions a retrieval method issues.
func methodCallWeight(method domain.RetrievalMethod) int {
	if method == domain.RetrievalMultiQuery {
		return 1
	}
	return 0
}

// classifyCost is a pure lookup on (generation style, model id, retrieval
// method): nominal call count times model tier, bucketed into three
// classes. Same inputs always yield the same class.
func classifyCost(style domain.GenerationStyle, model string, method domain.RetrievalMethod) domain.CostClass {
	score := (styleCallWeight(style) + methodCallWeight(method)) * modelTier(model)
	switch {
	case score <= 2:
		return domain.CostFast
	case score <= 6:
		return domain.CostMedium
	default:
		return domain.CostSlow
	}
}
