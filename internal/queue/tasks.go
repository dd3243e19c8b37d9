package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zombar/credengine/internal/engine"
	"github.com/zombar/credengine/internal/models"
)

// handleAnalyzeText runs the analysis pipeline for a batch job and stores
// the serialized result with the task.
func (w *Worker) handleAnalyzeText(ctx context.Context, t *asynq.Task) error {
	var payload AnalyzeTextPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		w.logger.Error("failed to unmarshal task payload", "error", err)
		return fmt.Errorf("invalid task payload: %v: %w", err, asynq.SkipRetry)
	}

	var queueWaitTime time.Duration
	if payload.EnqueuedAt > 0 {
		queueWaitTime = time.Since(time.Unix(0, payload.EnqueuedAt))
	}

	w.logger.Info("processing analysis job",
		"job_id", payload.JobID,
		"text_length", len(payload.Text),
		"queue_wait_seconds", queueWaitTime.Seconds(),
	)

	ctx, span := w.startTaskSpan(ctx, payload, queueWaitTime)
	if span != nil {
		defer span.End()
	}

	result, err := w.engine.Analyze(ctx, models.AnalysisRequest{
		Text:    payload.Text,
		Options: payload.Options,
	})
	if err != nil {
		// Caller errors cannot succeed on retry.
		if errors.Is(err, engine.ErrInvalidInput) || errors.Is(err, engine.ErrPayloadTooLarge) {
			return fmt.Errorf("analysis rejected: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	if w.enricher != nil {
		if report, err := w.enricher.EnrichReport(ctx, result); err == nil {
			result.FormalReport = report
		} else {
			w.logger.Warn("report enrichment failed, keeping deterministic report",
				"job_id", payload.JobID, "error", err)
		}
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %v: %w", err, asynq.SkipRetry)
	}
	if _, err := t.ResultWriter().Write(data); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}

	w.logger.Info("analysis job completed",
		"job_id", payload.JobID,
		"word_count", result.WordCount,
		"credibility_score", result.CredibilityScore,
	)

	return nil
}

// startTaskSpan recreates the trace context propagated through the task
// payload, linking the worker span to the enqueueing request.
func (w *Worker) startTaskSpan(ctx context.Context, payload AnalyzeTextPayload, queueWait time.Duration) (context.Context, trace.Span) {
	if payload.TraceID == "" || payload.SpanID == "" {
		return ctx, nil
	}

	traceID, err := trace.TraceIDFromHex(payload.TraceID)
	if err != nil {
		return ctx, nil
	}
	spanID, err := trace.SpanIDFromHex(payload.SpanID)
	if err != nil {
		return ctx, nil
	}

	remoteSpanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	ctx = trace.ContextWithRemoteSpanContext(ctx, remoteSpanCtx)

	return otel.Tracer("credengine").Start(ctx, "asynq.task.analyze",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("task.type", TypeAnalyzeText),
			attribute.String("job.id", payload.JobID),
			attribute.Int("text.length", len(payload.Text)),
			attribute.Float64("queue.wait_time_seconds", queueWait.Seconds()),
		),
	)
}
