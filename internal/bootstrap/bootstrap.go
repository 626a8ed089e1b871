package bootstrap

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/rag-strategy-lab/internal/config"
	"github.com/kirillkom/rag-strategy-lab/internal/core/ports"
	"github.com/kirillkom/rag-strategy-lab/internal/core/usecase"
	indexpg "github.com/kirillkom/rag-strategy-lab/internal/infrastructure/index/postgres"
	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/llm/openai"
	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/queue/nats"
	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/resilience"
	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/rag-strategy-lab/internal/infrastructure/vector/qdrant"
	"github.com/kirillkom/rag-strategy-lab/internal/observability/logging"
	"github.com/kirillkom/rag-strategy-lab/internal/observability/metrics"
)

// App wires the comparison API: engine, presets and observability.
type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Presets []config.Preset

	CompareUC   *usecase.CompareUseCase
	Chunks      ports.KeywordIndex
	HTTPMetrics *metrics.HTTPServerMetrics

	closeFn func()
}

func New(cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	slog.SetDefault(logger)

	presets, err := config.LoadPresets(cfg.PresetsPath)
	if err != nil {
		return nil, fmt.Errorf("load presets: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultPolicy())

	llm, embedder, err := buildLLM(cfg, executor)
	if err != nil {
		return nil, err
	}

	vectorIndex := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, executor)

	db, err := indexpg.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	keywordIndex := indexpg.NewKeywordIndex(db)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	comparisonMetrics := metrics.NewComparisonMetrics("api")
	httpMetrics.Register(comparisonMetrics.Collectors()...)

	compareUC := usecase.NewCompareUseCase(
		embedder,
		vectorIndex,
		keywordIndex,
		llm,
		queue,
		comparisonMetrics,
		logger,
		usecase.CompareOptions{
			TopK:               cfg.CompareTopK,
			MultiQueryVariants: cfg.CompareVariants,
			HybridVectorWeight: cfg.CompareHybridWeight,
			MaxHops:            cfg.CompareMaxHops,
			UncertaintySamples: cfg.CompareSamples,
			PipelineTimeout:    time.Duration(cfg.ComparePipelineTimeout) * time.Second,
		},
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		Presets:     presets,
		CompareUC:   compareUC,
		Chunks:      keywordIndex,
		HTTPMetrics: httpMetrics,
		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

func buildLLM(cfg config.Config, executor *resilience.Executor) (ports.CompletionClient, ports.Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMBackend)) {
	case "", "ollama":
		client := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel, executor)
		return client, client, nil
	case "openai":
		client, err := openai.New(openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			EmbedModel: cfg.OpenAIEmbedModel,
		}, executor)
		if err != nil {
			return nil, nil, fmt.Errorf("init openai: %w", err)
		}
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm backend %q", cfg.LLMBackend)
	}
}

// WorkerApp wires the report worker: queue consumer, report sink and
// worker metrics.
type WorkerApp struct {
	Config  config.Config
	Logger  *slog.Logger
	Queue   *nats.Queue
	Reports ports.ReportSink
	Metrics *metrics.WorkerMetrics

	closeFn func()
}

func NewWorker(cfg config.Config) (*WorkerApp, error) {
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)
	slog.SetDefault(logger)

	storage, err := localfs.New(cfg.ReportsPath)
	if err != nil {
		return nil, fmt.Errorf("init report storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	return &WorkerApp{
		Config:  cfg,
		Logger:  logger,
		Queue:   queue,
		Reports: storage,
		Metrics: metrics.NewWorkerMetrics("worker"),
		closeFn: func() {
			queue.Close()
		},
	}, nil
}

func (a *WorkerApp) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
