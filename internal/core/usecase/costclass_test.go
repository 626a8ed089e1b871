package usecase

import (
	"testing"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

func TestClassifyCostDeterministic(t *testing.T) {
	first := classifyCost(domain.GenerationUncertainty, "gpt-4o", domain.RetrievalMultiQuery)
	for i := 0; i < 10; i++ {
		if got := classifyCost(domain.GenerationUncertainty, "gpt-4o", domain.RetrievalMultiQuery); got != first {
			t.Fatalf("cost class changed across runs: %s then %s", first, got)
		}
	}
}

func TestClassifyCostTable(t *testing.T) {
	cases := []struct {
		style  domain.GenerationStyle
		model  string
		method domain.RetrievalMethod
		want   domain.CostClass
	}{
		{domain.GenerationStandard, "gpt-4o-mini", domain.RetrievalVector, domain.CostFast},
		{domain.GenerationStandard, "llama3.1:8b", domain.RetrievalHybrid, domain.CostFast},
		{domain.GenerationStandard, "gpt-4o", domain.RetrievalVector, domain.CostMedium},
		{domain.GenerationFactVerification, "gpt-4o-mini", domain.RetrievalVector, domain.CostFast},
		{domain.GenerationFactVerification, "gpt-4o", domain.RetrievalVector, domain.CostMedium},
		{domain.GenerationMultiHop, "unknown-model", domain.RetrievalVector, domain.CostMedium},
		{domain.GenerationUncertainty, "gpt-4o", domain.RetrievalVector, domain.CostSlow},
		{domain.GenerationUncertainty, "gpt-4o", domain.RetrievalMultiQuery, domain.CostSlow},
		{domain.GenerationMultiHop, "gpt-4o", domain.RetrievalMultiQuery, domain.CostSlow},
	}
	for _, tc := range cases {
		if got := classifyCost(tc.style, tc.model, tc.method); got != tc.want {
			t.Fatalf("classifyCost(%s, %s, %s) = %s, want %s", tc.style, tc.model, tc.method, got, tc.want)
		}
	}
}

func TestModelTierMatchesPrefixes(t *testing.T) {
	if modelTier("gpt-4o-mini-2024-07-18") != 1 {
		t.Fatalf("mini family must be cheap tier")
	}
	if modelTier("gpt-4o-2024-11-20") != 3 {
		t.Fatalf("gpt-4o family must be premium tier")
	}
	if modelTier("some-new-model") != defaultModelTier {
		t.Fatalf("unknown models must fall into the default tier")
	}
}
