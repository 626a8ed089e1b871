package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/rag-strategy-lab/internal/config"
	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

type fakeComparator struct {
	lastQuestion string
	lastConfigs  []domain.StrategyConfig
	result       *domain.ComparisonResult
	err          error
}

func (f *fakeComparator) Compare(_ context.Context, question string, configs []domain.StrategyConfig) (*domain.ComparisonResult, error) {
	f.lastQuestion = question
	f.lastConfigs = configs
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	runs := make([]domain.StrategyRunResult, len(configs))
	for i, cfg := range configs {
		runs[i] = domain.StrategyRunResult{
			Config:     cfg,
			Generation: &domain.GenerationResult{Answer: "ok", LLMCalls: 1},
			CostClass:  domain.CostFast,
		}
	}
	return &domain.ComparisonResult{ID: "cmp-1", Question: question, Runs: runs}, nil
}

type fakeChunkIndex struct {
	chunks map[string]string
}

func (f *fakeChunkIndex) Search(_ context.Context, _ string, _ int) ([]domain.RetrievedChunk, error) {
	return nil, nil
}

func (f *fakeChunkIndex) FetchChunk(_ context.Context, chunkID string) (string, error) {
	text, ok := f.chunks[chunkID]
	if !ok {
		return "", domain.WrapError(domain.ErrInvalidInput, "fetch chunk", jsonError("chunk "+chunkID+" not found"))
	}
	return text, nil
}

func newTestRouter(comparator *fakeComparator) http.Handler {
	return NewRouter(comparator, config.DefaultPresets(), Options{
		ServiceName: "api",
		Chunks:      &fakeChunkIndex{chunks: map[string]string{"c1": "full chunk text"}},
	}).Handler()
}

func TestHealthz(t *testing.T) {
	handler := newTestRouter(&fakeComparator{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected generated request id header")
	}
}

func TestListStrategiesReturnsPresets(t *testing.T) {
	handler := newTestRouter(&fakeComparator{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/strategies", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var body struct {
		Presets []config.Preset `json:"presets"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Presets) == 0 {
		t.Fatalf("expected presets in response")
	}
}

func TestCompareAcceptsExplicitConfigs(t *testing.T) {
	comparator := &fakeComparator{}
	handler := newTestRouter(comparator)

	payload := `{
		"question": "What is the capital of France?",
		"strategies": [
			{"retrieval_method":"vector","generation_style":"standard","llm_model":"gpt-4o-mini"},
			{"retrieval_method":"hybrid","rerank":true,"generation_style":"fact_verification","llm_model":"gpt-4o"}
		]
	}`
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/compare", strings.NewReader(payload)))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if len(comparator.lastConfigs) != 2 {
		t.Fatalf("expected 2 configs forwarded, got %d", len(comparator.lastConfigs))
	}
	if comparator.lastConfigs[1].RetrievalMethod != domain.RetrievalHybrid {
		t.Fatalf("unexpected second config: %+v", comparator.lastConfigs[1])
	}
}

func TestCompareResolvesPresetNames(t *testing.T) {
	comparator := &fakeComparator{}
	handler := newTestRouter(comparator)

	payload := `{"question":"q","presets":["baseline","thorough"]}`
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/compare", strings.NewReader(payload)))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if len(comparator.lastConfigs) != 2 {
		t.Fatalf("expected 2 resolved configs, got %d", len(comparator.lastConfigs))
	}
	if !comparator.lastConfigs[1].Rerank {
		t.Fatalf("thorough preset must carry rerank")
	}
}

func TestCompareUnknownPresetIs400(t *testing.T) {
	handler := newTestRouter(&fakeComparator{})

	payload := `{"question":"q","presets":["no-such-preset"]}`
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/compare", strings.NewReader(payload)))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestCompareMapsDomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", domain.WrapError(domain.ErrInvalidInput, "compare", errEmptyQuestion), http.StatusBadRequest},
		{"too many strategies", domain.WrapError(domain.ErrTooManyStrategies, "compare", errTooMany), http.StatusBadRequest},
		{"temporary", domain.WrapError(domain.ErrTemporary, "compare", errBackendDown), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := newTestRouter(&fakeComparator{err: tc.err})

			payload := `{"question":"q","presets":["baseline"]}`
			res := httptest.NewRecorder()
			handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/compare", strings.NewReader(payload)))
			if res.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, res.Code)
			}
		})
	}
}

func TestGetChunkReturnsStoredText(t *testing.T) {
	handler := newTestRouter(&fakeComparator{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/chunks/c1", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["chunk_id"] != "c1" || body["text"] != "full chunk text" {
		t.Fatalf("unexpected chunk payload: %v", body)
	}
}

func TestGetChunkUnknownIs404(t *testing.T) {
	handler := newTestRouter(&fakeComparator{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/chunks/no-such-chunk", nil))
	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestGetChunkMissingIDIs400(t *testing.T) {
	handler := newTestRouter(&fakeComparator{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/chunks/", nil))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty chunk id, got %d", res.Code)
	}
}

func TestCompareInvalidJSONIs400(t *testing.T) {
	handler := newTestRouter(&fakeComparator{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/compare", strings.NewReader("{not json")))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

var (
	errEmptyQuestion = jsonError("question is empty")
	errTooMany       = jsonError("too many strategies")
	errBackendDown   = jsonError("backend down")
)

type jsonError string

func (e jsonError) Error() string { return string(e) }
