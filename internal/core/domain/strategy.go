package domain

import "fmt"

type RetrievalMethod string

const (
	RetrievalVector     RetrievalMethod = "vector"
	RetrievalMultiQuery RetrievalMethod = "multi_query"
	RetrievalHybrid     RetrievalMethod = "hybrid"
)

type GenerationStyle string

const (
	GenerationStandard         GenerationStyle = "standard"
	GenerationFactVerification GenerationStyle = "fact_verification"
	GenerationMultiHop         GenerationStyle = "multi_hop"
	GenerationUncertainty      GenerationStyle = "uncertainty"
)

// StrategyConfig describes one retrieval+generation variant to execute.
// Configs are value types: built by the caller, validated once, never
// mutated after submission.
type StrategyConfig struct {
	RetrievalMethod RetrievalMethod `json:"retrieval_method" yaml:"retrieval_method"`
	Rerank          bool            `json:"rerank" yaml:"rerank"`
	GenerationStyle GenerationStyle `json:"generation_style" yaml:"generation_style"`
	LLMModel        string          `json:"llm_model" yaml:"llm_model"`

	// EmbeddingModel and Chunking are informational labels carried into the
	// result for display; they do not change which index is queried.
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`
	Chunking       string `json:"chunking,omitempty" yaml:"chunking,omitempty"`
}

func (m RetrievalMethod) Valid() bool {
	switch m {
	case RetrievalVector, RetrievalMultiQuery, RetrievalHybrid:
		return true
	default:
		return false
	}
}

func (s GenerationStyle) Valid() bool {
	switch s {
	case GenerationStandard, GenerationFactVerification, GenerationMultiHop, GenerationUncertainty:
		return true
	default:
		return false
	}
}

func (c StrategyConfig) Validate() error {
	if !c.RetrievalMethod.Valid() {
		return WrapError(ErrInvalidInput, "validate strategy", fmt.Errorf("unknown retrieval method %q", c.RetrievalMethod))
	}
	if !c.GenerationStyle.Valid() {
		return WrapError(ErrInvalidInput, "validate strategy", fmt.Errorf("unknown generation style %q", c.GenerationStyle))
	}
	if c.LLMModel == "" {
		return WrapError(ErrInvalidInput, "validate strategy", fmt.Errorf("llm model is required"))
	}
	return nil
}
