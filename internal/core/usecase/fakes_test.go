package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type fakeEmbedder struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, text)
	return []float32{float32(len(text))}, nil
}

func (f *fakeEmbedder) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

type fakeVectorIndex struct {
	mu       sync.Mutex
	results  []domain.RetrievedChunk
	byLength map[int][]domain.RetrievedChunk
	// sequential makes every call return one fresh, unseen chunk.
	sequential bool
	err        error
	calls      int
}

func (f *fakeVectorIndex) Search(_ context.Context, queryVector []float32, _ int) ([]domain.RetrievedChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.sequential {
		return []domain.RetrievedChunk{{ChunkID: fmt.Sprintf("seq-%d", f.calls), Text: "fresh", Score: 1}}, nil
	}
	if f.byLength != nil && len(queryVector) > 0 {
		return cloneChunks(f.byLength[int(queryVector[0])]), nil
	}
	return cloneChunks(f.results), nil
}

type fakeKeywordIndex struct {
	mu      sync.Mutex
	results []domain.RetrievedChunk
	err     error
	calls   int
}

func (f *fakeKeywordIndex) Search(_ context.Context, _ string, _ int) ([]domain.RetrievedChunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return cloneChunks(f.results), nil
}

func (f *fakeKeywordIndex) FetchChunk(_ context.Context, chunkID string) (string, error) {
	return "", fmt.Errorf("chunk %s not found", chunkID)
}

type fakeLLM struct {
	mu            sync.Mutex
	completeFn    func(prompt, model string) (string, error)
	jsonFn        func(prompt, model string) (string, error)
	completeCalls int
	jsonCalls     int
}

func (f *fakeLLM) Complete(_ context.Context, prompt, model string) (string, error) {
	f.mu.Lock()
	f.completeCalls++
	fn := f.completeFn
	f.mu.Unlock()
	if fn == nil {
		return "answer", nil
	}
	return fn(prompt, model)
}

func (f *fakeLLM) CompleteJSON(_ context.Context, prompt, model string) (string, error) {
	f.mu.Lock()
	f.jsonCalls++
	fn := f.jsonFn
	f.mu.Unlock()
	if fn == nil {
		return "{}", nil
	}
	return fn(prompt, model)
}

func (f *fakeLLM) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completeCalls + f.jsonCalls
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*domain.ComparisonResult
	err       error
}

func (f *fakePublisher) PublishComparisonCompleted(_ context.Context, result *domain.ComparisonResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, result)
	return nil
}

func cloneChunks(chunks []domain.RetrievedChunk) []domain.RetrievedChunk {
	out := make([]domain.RetrievedChunk, len(chunks))
	copy(out, chunks)
	return out
}

func testDeps(embedder *fakeEmbedder, vector *fakeVectorIndex, keyword *fakeKeywordIndex, llm *fakeLLM) retrieverDeps {
	return retrieverDeps{
		embedder:     embedder,
		vector:       vector,
		keyword:      keyword,
		llm:          llm,
		logger:       testLogger(),
		topK:         5,
		variants:     3,
		vectorWeight: 0.5,
		model:        "test-model",
	}
}
