package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/zombar/credengine/internal/engine"
	"github.com/zombar/credengine/internal/models"
)

// Enricher rewrites the formal report after analysis. Optional; failures
// keep the deterministic report.
type Enricher interface {
	EnrichReport(ctx context.Context, result *models.AnalysisResult) (string, error)
}

// retryDelay is a short backoff ladder: analysis is deterministic, so
// retries only help with transient Redis or enrichment faults.
func retryDelay(n int, err error, task *asynq.Task) time.Duration {
	delays := []time.Duration{
		30 * time.Second,
		2 * time.Minute,
		10 * time.Minute,
	}
	if n < len(delays) {
		return delays[n]
	}
	return delays[len(delays)-1]
}

// Worker wraps the asynq server for processing batch analysis tasks.
type Worker struct {
	server      *asynq.Server
	mux         *asynq.ServeMux
	engine      *engine.Engine
	enricher    Enricher
	concurrency int
	logger      *slog.Logger
}

// WorkerConfig contains configuration for the queue worker.
type WorkerConfig struct {
	RedisAddr   string
	Concurrency int
}

// NewWorker creates a new queue worker. enricher may be nil.
func NewWorker(cfg WorkerConfig, eng *engine.Engine, enricher Enricher) *Worker {
	serverCfg := asynq.Config{
		Concurrency: cfg.Concurrency,

		Queues: map[string]int{
			AnalysisQueue: 5,
		},

		RetryDelayFunc: retryDelay,

		ShutdownTimeout: 30 * time.Second,

		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)

			slog.Error("task processing error",
				"task_type", task.Type(),
				"error", err,
				"retry_count", retried,
				"max_retries", maxRetry,
			)
		}),
	}

	w := &Worker{
		server:      asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, serverCfg),
		mux:         asynq.NewServeMux(),
		engine:      eng,
		enricher:    enricher,
		concurrency: cfg.Concurrency,
		logger:      slog.Default(),
	}

	w.mux.HandleFunc(TypeAnalyzeText, w.handleAnalyzeText)

	return w
}

// Start begins processing tasks. Blocking.
func (w *Worker) Start() error {
	w.logger.Info("starting asynq worker",
		"concurrency", w.concurrency,
		"queue", AnalysisQueue,
	)

	if err := w.server.Run(w.mux); err != nil {
		return fmt.Errorf("asynq server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the worker.
func (w *Worker) Shutdown() {
	w.logger.Info("shutting down asynq worker")
	w.server.Shutdown()
}
