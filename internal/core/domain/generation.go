package domain

type ClaimVerdict string

const (
	VerdictSupported          ClaimVerdict = "supported"
	VerdictUnsupported        ClaimVerdict = "unsupported"
	VerdictPartiallySupported ClaimVerdict = "partially_supported"
)

// VerifiedClaim is one factual claim extracted from an answer together
// with its verdict against the retrieved context.
type VerifiedClaim struct {
	Claim   string       `json:"claim"`
	Verdict ClaimVerdict `json:"verdict"`
}

// HopTrace records one multi-hop iteration.
type HopTrace struct {
	Hop           int    `json:"hop"`
	SubQuestion   string `json:"sub_question"`
	PartialAnswer string `json:"partial_answer"`
	NewChunks     int    `json:"new_chunks"`
}

// GenerationResult is the answer produced by one generation style plus the
// style-specific auxiliary data. Only the fields relevant to the style that
// produced the result are populated.
type GenerationResult struct {
	Answer string `json:"answer"`

	// fact_verification
	Claims []VerifiedClaim `json:"claims,omitempty"`

	// multi_hop
	Hops         []HopTrace `json:"hops,omitempty"`
	NonConverged bool       `json:"non_converged,omitempty"`

	// uncertainty
	Samples    []string `json:"samples,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`

	// LLMCalls counts completions issued while producing this result.
	LLMCalls int `json:"llm_calls"`
}
