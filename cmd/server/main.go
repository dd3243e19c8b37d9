package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/zombar/credengine/internal/api"
	"github.com/zombar/credengine/internal/engine"
	"github.com/zombar/credengine/internal/ollama"
	"github.com/zombar/credengine/internal/queue"
	"github.com/zombar/credengine/pkg/logging"
	"github.com/zombar/credengine/pkg/tracing"
)

func main() {
	// Setup structured logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("credengine service initializing", "version", "1.0.0")

	// Initialize tracing
	tp, err := tracing.InitTracer("credengine")
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer", "error", err)
			}
		}()
		logger.Info("tracing initialized successfully")
	}

	// Get default values from environment variables, with fallbacks
	portDefault := getEnv("PORT", "8080")
	redisAddrDefault := getEnv("REDIS_ADDR", "")
	workersDefault := getEnvInt("ANALYSIS_WORKERS", 0)
	timeoutDefault := getEnvInt("ANALYSIS_TIMEOUT_MS", int(engine.DefaultTimeout/time.Millisecond))
	maxCharsDefault := getEnvInt("MAX_TEXT_CHARS", engine.DefaultMaxTextChars)
	ollamaURLDefault := getEnv("OLLAMA_URL", "http://localhost:11434")
	ollamaModelDefault := getEnv("OLLAMA_MODEL", "gpt-oss:20b")
	useOllamaDefault := getEnvBool("USE_OLLAMA", false)

	var (
		port        = flag.String("port", portDefault, "Server port (env: PORT)")
		redisAddr   = flag.String("redis-addr", redisAddrDefault, "Redis address for batch analysis; empty disables the queue (env: REDIS_ADDR)")
		workers     = flag.Int("workers", workersDefault, "Max concurrent analyses; 0 uses GOMAXPROCS (env: ANALYSIS_WORKERS)")
		timeoutMs   = flag.Int("timeout-ms", timeoutDefault, "Per-analysis time budget in milliseconds (env: ANALYSIS_TIMEOUT_MS)")
		maxChars    = flag.Int("max-chars", maxCharsDefault, "Maximum accepted text length in characters (env: MAX_TEXT_CHARS)")
		ollamaURL   = flag.String("ollama-url", ollamaURLDefault, "Ollama API URL (env: OLLAMA_URL)")
		ollamaModel = flag.String("ollama-model", ollamaModelDefault, "Ollama model to use (env: OLLAMA_MODEL)")
		useOllama   = flag.Bool("use-ollama", useOllamaDefault, "Enable Ollama for report enrichment (env: USE_OLLAMA)")
	)
	flag.Parse()

	// Initialize the analysis engine
	eng := engine.New(engine.Config{
		MaxTextChars: *maxChars,
		Timeout:      time.Duration(*timeoutMs) * time.Millisecond,
		Workers:      *workers,
	})

	// Initialize the optional report enricher
	var enricher api.Enricher
	var workerEnricher queue.Enricher
	if *useOllama {
		ollamaClient, err := ollama.New(*ollamaURL, *ollamaModel)
		if err != nil {
			logger.Warn("failed to initialize Ollama client, keeping deterministic reports",
				"error", err,
				"ollama_url", *ollamaURL,
				"ollama_model", *ollamaModel,
			)
		} else {
			logger.Info("Ollama client initialized", "model", *ollamaModel, "url", *ollamaURL)
			enricher = ollamaClient
			workerEnricher = ollamaClient
		}
	} else {
		logger.Info("Ollama disabled, using deterministic reports")
	}

	// Initialize the batch analysis queue when Redis is configured
	var queueClient api.QueueClient
	var inspector api.JobInspector
	if *redisAddr != "" {
		client := queue.NewClient(queue.ClientConfig{RedisAddr: *redisAddr})
		defer client.Close()
		queueClient = client
		inspector = queue.NewInspector(*redisAddr)

		worker := queue.NewWorker(queue.WorkerConfig{
			RedisAddr:   *redisAddr,
			Concurrency: *workers,
		}, eng, workerEnricher)
		go func() {
			if err := worker.Start(); err != nil {
				logger.Error("queue worker stopped", "error", err)
			}
		}()
		defer worker.Shutdown()

		logger.Info("batch analysis queue initialized", "redis_addr", *redisAddr)
	} else {
		logger.Info("no Redis address configured, batch analysis disabled")
	}

	// Initialize API handler
	apiHandler := api.NewHandler(eng, queueClient, inspector, enricher)

	// Wrap handler with middleware chain: HTTP logging -> tracing -> handlers
	handler := logging.HTTPLoggingMiddleware(logger)(
		tracing.HTTPMiddleware("credengine")(apiHandler),
	)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("credengine service starting",
			"port", *port,
			"workers", *workers,
			"timeout_ms", *timeoutMs,
			"max_chars", *maxChars,
			"queue_enabled", *redisAddr != "",
			"ollama_enabled", enricher != nil,
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
