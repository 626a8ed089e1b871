package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/rag-strategy-lab/internal/adapters/report"
	"github.com/kirillkom/rag-strategy-lab/internal/bootstrap"
	"github.com/kirillkom/rag-strategy-lab/internal/config"
	"github.com/kirillkom/rag-strategy-lab/internal/core/domain"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewWorker(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: app.Metrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("worker metrics server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	log.Printf("worker subscribed to %s", cfg.NATSSubject)
	err = app.Queue.SubscribeComparisonCompleted(ctx, func(handlerCtx context.Context, result *domain.ComparisonResult) error {
		renderCtx, cancel := context.WithTimeout(handlerCtx, 1*time.Minute)
		defer cancel()
		return renderReport(renderCtx, app, result)
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func renderReport(ctx context.Context, app *bootstrap.WorkerApp, result *domain.ComparisonResult) error {
	app.Metrics.StartReport()
	start := time.Now()

	var buf bytes.Buffer
	err := report.WriteXLSX(result, &buf)
	if err == nil {
		key := fmt.Sprintf("comparison-%s.xlsx", result.ID)
		err = app.Reports.Save(ctx, key, &buf)
	}

	app.Metrics.FinishReport("worker", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("render comparison %s: %w", result.ID, err)
	}

	app.Logger.Info("comparison_report_saved",
		"comparison_id", result.ID,
		"runs", len(result.Runs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
