package domain

import "time"

type CostClass string

const (
	CostFast   CostClass = "fast"
	CostMedium CostClass = "medium"
	CostSlow   CostClass = "slow"
)

// Degradation flags a non-fatal fallback taken inside a pipeline run.
type Degradation string

const (
	DegradationExpansionSkipped Degradation = "query_expansion_skipped"
	DegradationRerankSkipped    Degradation = "rerank_skipped"
)

// RunFailure marks a strategy run that did not complete. Kind mirrors the
// sentinel error that scoped the failure.
type RunFailure struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// StrategyRunResult is the terminal artifact of one pipeline execution.
// Either Generation is set or Failure is set, never both. CostClass stays
// empty for timed-out runs.
type StrategyRunResult struct {
	Config       StrategyConfig    `json:"config"`
	Candidates   []RetrievedChunk  `json:"candidates,omitempty"`
	Generation   *GenerationResult `json:"generation,omitempty"`
	ElapsedMS    int64             `json:"elapsed_ms"`
	CostClass    CostClass         `json:"cost_class,omitempty"`
	Degradations []Degradation     `json:"degradations,omitempty"`
	Failure      *RunFailure       `json:"failure,omitempty"`
}

func (r StrategyRunResult) Succeeded() bool {
	return r.Failure == nil
}

// ComparisonResult bundles one run per submitted strategy, in submission
// order. It is handed to the caller read-only.
type ComparisonResult struct {
	ID        string              `json:"id"`
	Question  string              `json:"question"`
	Runs      []StrategyRunResult `json:"runs"`
	CreatedAt time.Time           `json:"created_at"`
}
