package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/rag-strategy-lab/internal/config"
	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
	"github.com/kirillkom/rag-strategy-lab/internal/core/ports"
	"github.com/kirillkom/rag-strategy-lab/internal/observability/metrics"
)

type Router struct {
	comparator ports.StrategyComparator
	presets    []config.Preset
	opts       Options
}

type Options struct {
	ServiceName string
	Metrics     *metrics.HTTPServerMetrics

	// Chunks backs GET /v1/chunks/{id}; the route is registered only when
	// an index is supplied.
	Chunks ports.KeywordIndex

	RateLimitRPS     float64
	RateLimitBurst   int
	MaxInFlight      int
	BackpressureWait time.Duration
}

func NewRouter(comparator ports.StrategyComparator, presets []config.Preset, opts Options) *Router {
	if opts.ServiceName == "" {
		opts.ServiceName = "api"
	}
	return &Router{
		comparator: comparator,
		presets:    presets,
		opts:       opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/strategies", rt.listStrategies)
	mux.HandleFunc("/v1/compare", rt.compare)
	if rt.opts.Chunks != nil {
		mux.HandleFunc("/v1/chunks/", rt.getChunk)
	}

	var handler http.Handler = mux
	if rt.opts.MaxInFlight > 0 {
		handler = backpressureMiddleware(handler, rt.opts.MaxInFlight, rt.opts.BackpressureWait)
	}
	if rt.opts.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	}
	if rt.opts.Metrics != nil {
		handler = rt.opts.Metrics.Middleware(rt.opts.ServiceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) listStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"presets": rt.presets})
}

// getChunk recovers the full stored text of one retrieved chunk so a
// comparison reader can inspect the context a strategy answered from.
func (rt *Router) getChunk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	chunkID := strings.TrimPrefix(r.URL.Path, "/v1/chunks/")
	if chunkID == "" || strings.Contains(chunkID, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "chunk id is required"})
		return
	}

	text, err := rt.opts.Chunks.FetchChunk(r.Context(), chunkID)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown chunk: " + chunkID})
			return
		}
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"chunk_id": chunkID, "text": text})
}

type compareRequest struct {
	Question   string                  `json:"question"`
	Strategies []domain.StrategyConfig `json:"strategies"`
	Presets    []string                `json:"presets"`
}

func (rt *Router) compare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	configs := make([]domain.StrategyConfig, 0, len(req.Strategies)+len(req.Presets))
	configs = append(configs, req.Strategies...)
	for _, name := range req.Presets {
		preset, ok := config.FindPreset(rt.presets, name)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown preset: " + name})
			return
		}
		configs = append(configs, preset.Strategy)
	}

	result, err := rt.comparator.Compare(r.Context(), req.Question, configs)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
