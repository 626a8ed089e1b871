package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// Preset is a named, ready-to-submit strategy configuration. Presets let
// callers reference a strategy by name instead of spelling out the full
// config in every request.
type Preset struct {
	Name        string                `yaml:"name" json:"name"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Strategy    domain.StrategyConfig `yaml:"strategy" json:"strategy"`
}

// LoadPresets reads presets from a YAML file, falling back to the built-in
// set when path is empty.
func LoadPresets(path string) ([]Preset, error) {
	if path == "" {
		return DefaultPresets(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets file: %w", err)
	}

	var doc struct {
		Presets []Preset `yaml:"presets"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse presets yaml: %w", err)
	}
	if len(doc.Presets) == 0 {
		return nil, fmt.Errorf("presets file %s defines no presets", path)
	}

	seen := make(map[string]bool, len(doc.Presets))
	for i, p := range doc.Presets {
		if p.Name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true
		if err := p.Strategy.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
	}
	return doc.Presets, nil
}

func DefaultPresets() []Preset {
	return []Preset{
		{
			Name:        "baseline",
			Description: "Plain vector retrieval with a single-pass answer.",
			Strategy: domain.StrategyConfig{
				RetrievalMethod: domain.RetrievalVector,
				GenerationStyle: domain.GenerationStandard,
				LLMModel:        "gpt-4o-mini",
				EmbeddingModel:  "text-embedding-3-small",
				Chunking:        "semantic-1000-200",
			},
		},
		{
			Name:        "thorough",
			Description: "Hybrid retrieval with reranking and claim verification.",
			Strategy: domain.StrategyConfig{
				RetrievalMethod: domain.RetrievalHybrid,
				Rerank:          true,
				GenerationStyle: domain.GenerationFactVerification,
				LLMModel:        "gpt-4o",
				EmbeddingModel:  "text-embedding-3-small",
				Chunking:        "semantic-1000-200",
			},
		},
		{
			Name:        "exploratory",
			Description: "Multi-query retrieval with iterative multi-hop answering.",
			Strategy: domain.StrategyConfig{
				RetrievalMethod: domain.RetrievalMultiQuery,
				GenerationStyle: domain.GenerationMultiHop,
				LLMModel:        "gpt-4o",
				EmbeddingModel:  "text-embedding-3-small",
				Chunking:        "semantic-1000-200",
			},
		},
		{
			Name:        "calibrated",
			Description: "Vector retrieval with sampled answers and a confidence score.",
			Strategy: domain.StrategyConfig{
				RetrievalMethod: domain.RetrievalVector,
				GenerationStyle: domain.GenerationUncertainty,
				LLMModel:        "gpt-4o-mini",
				EmbeddingModel:  "text-embedding-3-small",
				Chunking:        "semantic-1000-200",
			},
		},
	}
}

// FindPreset resolves a preset by name.
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
