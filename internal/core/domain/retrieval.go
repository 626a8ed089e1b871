package domain

// RetrievedChunk is one indexed passage returned by a retrieval call.
// Source records which sub-query or retrieval method produced it, so
// multi-query and hybrid merges stay explainable.
type RetrievedChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id,omitempty"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	Source     string  `json:"source,omitempty"`
}

// ChunkIDs returns the identifier set of a candidate list in order.
func ChunkIDs(chunks []RetrievedChunk) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.ChunkID)
	}
	return out
}
