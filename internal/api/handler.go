// Package api exposes the engine over the JSON/HTTP boundary: the
// synchronous analyze endpoint, the async batch job flow, health, and
// metrics.
package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zombar/credengine/internal/engine"
	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/queue"
	"github.com/zombar/credengine/pkg/tracing"
)

// errTextRequired matches the message contract of the original route.
const errTextRequired = "Text is required and must be a string"

// errAnalyzeFailed is the generic message for server-side faults; the
// detailed cause is logged, never leaked.
const errAnalyzeFailed = "Failed to analyze text"

// statusClientClosedRequest is the nginx convention for a request the
// client abandoned; net/http has no constant for it.
const statusClientClosedRequest = 499

// QueueClient enqueues batch analysis jobs.
type QueueClient interface {
	EnqueueAnalyzeText(ctx context.Context, jobID, text string, opts *models.AnalysisOptions) (string, error)
}

// JobInspector reads batch job state. *asynq.Inspector satisfies it.
type JobInspector interface {
	GetTaskInfo(queue, id string) (*asynq.TaskInfo, error)
}

// Enricher rewrites the formal report after analysis.
type Enricher interface {
	EnrichReport(ctx context.Context, result *models.AnalysisResult) (string, error)
}

// Handler handles HTTP requests.
type Handler struct {
	engine      *engine.Engine
	queueClient QueueClient
	inspector   JobInspector
	enricher    Enricher
	logger      *slog.Logger
	mux         *http.ServeMux
}

// NewHandler creates the API handler with CORS support. queueClient,
// inspector, and enricher may be nil; the matching endpoints report
// unavailability.
func NewHandler(eng *engine.Engine, queueClient QueueClient, inspector JobInspector, enricher Enricher) http.Handler {
	h := &Handler{
		engine:      eng,
		queueClient: queueClient,
		inspector:   inspector,
		enricher:    enricher,
		logger:      slog.Default(),
		mux:         http.NewServeMux(),
	}

	h.setupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(h.mux)
}

func (h *Handler) setupRoutes() {
	h.mux.Handle("/metrics", promhttp.Handler())
	h.mux.HandleFunc("/api/analyze", h.handleAnalyze)
	h.mux.HandleFunc("/api/analyze/async", h.handleAnalyzeAsync)
	h.mux.HandleFunc("/api/jobs/", h.handleJobStatus)
	h.mux.HandleFunc("/health", h.handleHealth)
}

// handleHealth handles health check requests.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleAnalyze runs the pipeline synchronously and returns the result.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "/api/analyze", errTextRequired, http.StatusBadRequest)
		return
	}

	tracing.SetSpanAttributes(r.Context(),
		attribute.Int("text.length", len(req.Text)))

	started := time.Now()
	result, err := h.engine.Analyze(r.Context(), req)
	if err != nil {
		h.respondEngineError(w, r, "/api/analyze", err)
		return
	}
	analyzeDuration.Observe(time.Since(started).Seconds())
	analysesTotal.WithLabelValues("ok").Inc()

	if h.enricher != nil {
		if report, err := h.enricher.EnrichReport(r.Context(), result); err == nil {
			result.FormalReport = report
		} else {
			h.logger.Warn("report enrichment failed, keeping deterministic report", "error", err)
		}
	}

	h.respondJSON(w, "/api/analyze", result, http.StatusOK)
}

// handleAnalyzeAsync enqueues a batch analysis job and returns its ID.
func (h *Handler) handleAnalyzeAsync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.queueClient == nil {
		h.respondError(w, "/api/analyze/async", "Batch analysis is not available", http.StatusServiceUnavailable)
		return
	}

	var req models.AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "/api/analyze/async", errTextRequired, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		h.respondError(w, "/api/analyze/async", errTextRequired, http.StatusBadRequest)
		return
	}
	// Reject oversize text here rather than shipping it through Redis
	// only for the worker to refuse it.
	if utf8.RuneCountInString(req.Text) > h.engine.MaxTextChars() {
		h.respondError(w, "/api/analyze/async", "Text exceeds the maximum allowed length", http.StatusRequestEntityTooLarge)
		return
	}

	jobID := generateID()
	taskID, err := h.queueClient.EnqueueAnalyzeText(r.Context(), jobID, req.Text, req.Options)
	if err != nil {
		h.logger.Error("failed to enqueue analysis", "error", err)
		h.respondError(w, "/api/analyze/async", errAnalyzeFailed, http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, "/api/analyze/async", map[string]any{
		"job_id":  jobID,
		"task_id": taskID,
		"status":  "queued",
		"message": "Analysis queued for processing",
	}, http.StatusAccepted)
}

// handleJobStatus reports the state of a batch job, including the stored
// result once completed.
func (h *Handler) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if h.inspector == nil {
		h.respondError(w, "/api/jobs", "Batch analysis is not available", http.StatusServiceUnavailable)
		return
	}

	jobID := r.URL.Path[len("/api/jobs/"):]
	if idx := strings.Index(jobID, "/"); idx != -1 {
		jobID = jobID[:idx]
	}
	if jobID == "" {
		h.respondError(w, "/api/jobs", "Job ID is required", http.StatusBadRequest)
		return
	}

	info, err := h.inspector.GetTaskInfo(queue.AnalysisQueue, jobID)
	if err != nil {
		h.respondJSON(w, "/api/jobs", map[string]any{
			"job_id":  jobID,
			"status":  "not_found",
			"message": "Job not found - it may have expired",
		}, http.StatusNotFound)
		return
	}

	response := map[string]any{
		"job_id": jobID,
		"status": jobStatus(info.State),
	}

	if info.State == asynq.TaskStateCompleted && len(info.Result) > 0 {
		var result models.AnalysisResult
		if err := json.Unmarshal(info.Result, &result); err == nil {
			response["analysis"] = result
		}
	}

	h.respondJSON(w, "/api/jobs", response, http.StatusOK)
}

// jobStatus maps asynq task states onto the status strings the UI polls
// for.
func jobStatus(state asynq.TaskState) string {
	switch state {
	case asynq.TaskStateCompleted:
		return "completed"
	case asynq.TaskStateActive:
		return "processing"
	case asynq.TaskStatePending, asynq.TaskStateScheduled, asynq.TaskStateAggregating:
		return "queued"
	case asynq.TaskStateRetry:
		return "retrying"
	case asynq.TaskStateArchived:
		return "failed"
	default:
		return "unknown"
	}
}

// respondEngineError maps engine error kinds onto HTTP statuses. Caller
// errors carry descriptive messages; server-side faults are generic.
func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, endpoint string, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		analysesTotal.WithLabelValues("invalid_input").Inc()
		h.respondError(w, endpoint, errTextRequired, http.StatusBadRequest)
	case errors.Is(err, engine.ErrPayloadTooLarge):
		analysesTotal.WithLabelValues("payload_too_large").Inc()
		h.respondError(w, endpoint, "Text exceeds the maximum allowed length", http.StatusRequestEntityTooLarge)
	case errors.Is(err, engine.ErrOverloaded):
		analysesTotal.WithLabelValues("overloaded").Inc()
		h.logger.Warn("analysis rejected, workers saturated")
		h.respondError(w, endpoint, errAnalyzeFailed, http.StatusServiceUnavailable)
	case errors.Is(err, engine.ErrTimeout):
		analysesTotal.WithLabelValues("timeout").Inc()
		h.logger.Error("analysis timed out")
		h.respondError(w, endpoint, errAnalyzeFailed, http.StatusGatewayTimeout)
	case errors.Is(err, engine.ErrCancelled):
		// Usually the peer is gone, but a cancellation can also come
		// from server shutdown, so still write a response.
		analysesTotal.WithLabelValues("cancelled").Inc()
		h.logger.Info("analysis cancelled")
		h.respondError(w, endpoint, errAnalyzeFailed, statusClientClosedRequest)
	default:
		analysesTotal.WithLabelValues("internal_error").Inc()
		h.logger.Error("analysis failed", "error", err)
		h.respondError(w, endpoint, errAnalyzeFailed, http.StatusInternalServerError)
	}
}

// respondJSON sends a JSON response.
func (h *Handler) respondJSON(w http.ResponseWriter, endpoint string, data any, statusCode int) {
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response.
func (h *Handler) respondError(w http.ResponseWriter, endpoint, message string, statusCode int) {
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// generateID generates a UUID for a batch job.
func generateID() string {
	uuid := make([]byte, 16)
	_, err := rand.Read(uuid)
	if err != nil {
		// Fallback to timestamp-based ID if random generation fails
		return time.Now().Format("20060102150405") + "-" + strconv.FormatInt(time.Now().UnixNano()%1000000, 10)
	}

	// Set version (4) and variant bits according to RFC 4122
	uuid[6] = (uuid[6] & 0x0f) | 0x40
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hex.EncodeToString(uuid[0:4]),
		hex.EncodeToString(uuid[4:6]),
		hex.EncodeToString(uuid[6:8]),
		hex.EncodeToString(uuid[8:10]),
		hex.EncodeToString(uuid[10:16]))
}
