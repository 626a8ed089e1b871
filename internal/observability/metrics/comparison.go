package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

// ComparisonMetrics records engine-level outcomes: one observation per
// strategy run plus one per finished comparison.
type ComparisonMetrics struct {
	service string

	comparisonsTotal   *prometheus.CounterVec
	strategyRunsTotal  *prometheus.CounterVec
	strategyDuration   *prometheus.HistogramVec
	strategyCostTotal  *prometheus.CounterVec
	degradationsTotal  *prometheus.CounterVec
	strategiesPerBatch *prometheus.HistogramVec
}

func NewComparisonMetrics(service string) *ComparisonMetrics {
	return &ComparisonMetrics{
		service: service,
		comparisonsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rsl",
				Subsystem: "engine",
				Name:      "comparisons_total",
				Help:      "Total completed comparisons.",
			},
			[]string{"service"},
		),
		strategyRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rsl",
				Subsystem: "engine",
				Name:      "strategy_runs_total",
				Help:      "Total strategy runs by configuration and outcome.",
			},
			[]string{"service", "method", "style", "status"},
		),
		strategyDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rsl",
				Subsystem: "engine",
				Name:      "strategy_run_duration_seconds",
				Help:      "Strategy run duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "method", "style"},
		),
		strategyCostTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rsl",
				Subsystem: "engine",
				Name:      "strategy_cost_class_total",
				Help:      "Total strategy runs by assigned cost class.",
			},
			[]string{"service", "cost_class"},
		),
		degradationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rsl",
				Subsystem: "engine",
				Name:      "degradations_total",
				Help:      "Total non-fatal fallbacks taken inside pipelines.",
			},
			[]string{"service", "degradation"},
		),
		strategiesPerBatch: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rsl",
				Subsystem: "engine",
				Name:      "strategies_per_comparison",
				Help:      "Distribution of strategies submitted per comparison.",
				Buckets:   []float64{1, 2, 3},
			},
			[]string{"service"},
		),
	}
}

func (m *ComparisonMetrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.comparisonsTotal,
		m.strategyRunsTotal,
		m.strategyDuration,
		m.strategyCostTotal,
		m.degradationsTotal,
		m.strategiesPerBatch,
	}
}

func (m *ComparisonMetrics) ObserveStrategyRun(result domain.StrategyRunResult) {
	method := string(result.Config.RetrievalMethod)
	style := string(result.Config.GenerationStyle)

	status := "success"
	if result.Failure != nil {
		status = result.Failure.Kind
	}
	m.strategyRunsTotal.WithLabelValues(m.service, method, style, status).Inc()
	m.strategyDuration.WithLabelValues(m.service, method, style).Observe(float64(result.ElapsedMS) / 1000.0)

	if result.CostClass != "" {
		m.strategyCostTotal.WithLabelValues(m.service, string(result.CostClass)).Inc()
	}
	for _, d := range result.Degradations {
		m.degradationsTotal.WithLabelValues(m.service, string(d)).Inc()
	}
}

func (m *ComparisonMetrics) ObserveComparison(result *domain.ComparisonResult) {
	m.comparisonsTotal.WithLabelValues(m.service).Inc()
	m.strategiesPerBatch.WithLabelValues(m.service).Observe(float64(len(result.Runs)))
}
