// Package queue provides the asynq-backed batch analysis flow: callers
// enqueue analyze-text tasks and poll for the stored result. Task payloads
// and results live in Redis only for the retention window; nothing is
// persisted by this service.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/credengine/internal/models"
)

// TypeAnalyzeText is the task type for batch text analysis.
const TypeAnalyzeText = "credengine:analyze_text"

// AnalysisQueue is the asynq queue batch jobs run on.
const AnalysisQueue = "analysis"

// resultRetention keeps completed task results available to the status
// endpoint before Redis drops them.
const resultRetention = 24 * time.Hour

// AnalyzeTextPayload is the payload for a batch analysis task.
type AnalyzeTextPayload struct {
	JobID   string                  `json:"job_id"`
	Text    string                  `json:"text"`
	Options *models.AnalysisOptions `json:"options,omitempty"`
	// Tracing and timing fields
	TraceID    string `json:"trace_id,omitempty"`
	SpanID     string `json:"span_id,omitempty"`
	EnqueuedAt int64  `json:"enqueued_at"` // Unix timestamp in nanoseconds
}

// Client wraps the asynq client for enqueueing analysis tasks.
type Client struct {
	client *asynq.Client
}

// ClientConfig contains configuration for the queue client.
type ClientConfig struct {
	RedisAddr string
}

// NewClient creates a new queue client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr}),
	}
}

// EnqueueAnalyzeText enqueues a batch analysis task keyed by jobID.
func (c *Client) EnqueueAnalyzeText(ctx context.Context, jobID, text string, opts *models.AnalysisOptions) (string, error) {
	payload := AnalyzeTextPayload{
		JobID:      jobID,
		Text:       text,
		Options:    opts,
		EnqueuedAt: time.Now().UnixNano(),
	}

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		spanCtx := span.SpanContext()
		payload.TraceID = spanCtx.TraceID().String()
		payload.SpanID = spanCtx.SpanID().String()

		span.AddEvent("task_enqueued", trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeText),
			attribute.String("task.id", jobID),
			attribute.Int64("enqueued_at", payload.EnqueuedAt),
		))
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TypeAnalyzeText, payloadBytes, asynq.TaskID(jobID))

	info, err := c.client.Enqueue(task,
		asynq.MaxRetry(3),
		asynq.Timeout(2*time.Minute),
		asynq.Queue(AnalysisQueue),
		asynq.Retention(resultRetention),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue analyze task: %w", err)
	}

	return info.ID, nil
}

// Close closes the underlying asynq client.
func (c *Client) Close() error {
	return c.client.Close()
}

// NewInspector creates an asynq inspector for the job status endpoint.
func NewInspector(redisAddr string) *asynq.Inspector {
	return asynq.NewInspector(asynq.RedisClientOpt{Addr: redisAddr})
}
