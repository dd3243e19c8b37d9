package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/credengine/internal/engine"
	"github.com/zombar/credengine/internal/models"
)

type fakeQueueClient struct {
	enqueued []string
	err      error
}

func (f *fakeQueueClient) EnqueueAnalyzeText(ctx context.Context, jobID, text string, opts *models.AnalysisOptions) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.enqueued = append(f.enqueued, jobID)
	return "task-" + jobID, nil
}

type fakeInspector struct {
	info *asynq.TaskInfo
	err  error
}

func (f *fakeInspector) GetTaskInfo(queue, id string) (*asynq.TaskInfo, error) {
	return f.info, f.err
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(engine.New(engine.Config{}), nil, nil, nil)
}

func postJSON(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleAnalyze(t *testing.T) {
	handler := newTestHandler(t)

	w := postJSON(t, handler, "/api/analyze",
		`{"text": "The committee reviewed the annual budget. Each department submitted estimates. Approval is expected soon."}`)

	require.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 14, result.WordCount)
	assert.Equal(t, 3, result.SentenceCount)
	assert.NotEmpty(t, result.Suggestions)
	assert.NotEmpty(t, result.Sources)
	assert.NotZero(t, result.Raw.AnalyzedAtEpochMs)
}

func TestHandleAnalyzeFieldNames(t *testing.T) {
	handler := newTestHandler(t)

	w := postJSON(t, handler, "/api/analyze", `{"text": "Some perfectly ordinary words. They form sentences. Nothing more."}`)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, field := range []string{
		`"readabilityScore"`, `"sentiment"`, `"wordCount"`, `"readingTime"`,
		`"complexity"`, `"educationalLevel"`, `"grammarScore"`,
		`"vocabularyDiversity"`, `"suggestions"`, `"credibility_score"`,
		`"metrics"`, `"formal_report"`, `"raw"`,
	} {
		assert.Contains(t, body, field)
	}
}

func TestHandleAnalyzeMissingText(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty text", `{"text": ""}`},
		{"whitespace text", `{"text": "   "}`},
		{"non-string text", `{"text": 42}`},
		{"malformed json", `{"text": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler, "/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "Text is required and must be a string", resp["error"])
		})
	}
}

func TestHandleAnalyzeMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analyze", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandleAnalyzePayloadTooLarge(t *testing.T) {
	handler := NewHandler(engine.New(engine.Config{MaxTextChars: 50}), nil, nil, nil)

	w := postJSON(t, handler, "/api/analyze",
		fmt.Sprintf(`{"text": %q}`, strings.Repeat("many words here ", 20)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestHandleAnalyzeOptions(t *testing.T) {
	handler := newTestHandler(t)

	w := postJSON(t, handler, "/api/analyze",
		`{"text": "Text with disabled sections. Another sentence here. And a third one.", "options": {"includeReadability": false, "includeSentiment": false, "includeTopics": false, "includeGrammar": false}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Zero(t, result.ReadabilityScore)
	assert.Empty(t, result.Sentiment)
	assert.Empty(t, result.KeyTopics)
	assert.Nil(t, result.Metrics)
}

func TestHandleAnalyzeEmptyOptionsObject(t *testing.T) {
	handler := newTestHandler(t)

	w := postJSON(t, handler, "/api/analyze",
		`{"text": "Research evidence suggests steady progress. The study documented measurable results. Further work continues.", "options": {}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result models.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotZero(t, result.ReadabilityScore, "empty options object must not disable sections")
	assert.NotEmpty(t, result.Sentiment)
	assert.NotEmpty(t, result.KeyTopics)
	assert.NotNil(t, result.Metrics)
}

func TestHandleAnalyzeCancelledWritesResponse(t *testing.T) {
	handler := newTestHandler(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze",
		bytes.NewBufferString(`{"text": "abandoned request"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, statusClientClosedRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to analyze text", resp["error"])
}

func TestHandleAnalyzeAsync(t *testing.T) {
	qc := &fakeQueueClient{}
	handler := NewHandler(engine.New(engine.Config{}), qc, nil, nil)

	w := postJSON(t, handler, "/api/analyze/async", `{"text": "queue this text"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "queued", resp["status"])
	assert.NotEmpty(t, resp["job_id"])
	assert.Len(t, qc.enqueued, 1)
}

func TestHandleAnalyzeAsyncPayloadTooLarge(t *testing.T) {
	qc := &fakeQueueClient{}
	handler := NewHandler(engine.New(engine.Config{MaxTextChars: 50}), qc, nil, nil)

	w := postJSON(t, handler, "/api/analyze/async",
		fmt.Sprintf(`{"text": %q}`, strings.Repeat("many words here ", 20)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, qc.enqueued, "oversize text must be rejected before enqueue")
}

func TestHandleAnalyzeAsyncUnavailable(t *testing.T) {
	handler := newTestHandler(t)

	w := postJSON(t, handler, "/api/analyze/async", `{"text": "no queue configured"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleJobStatusCompleted(t *testing.T) {
	result := models.AnalysisResult{WordCount: 7, CredibilityScore: 61}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	ins := &fakeInspector{info: &asynq.TaskInfo{
		ID:     "job-1",
		State:  asynq.TaskStateCompleted,
		Result: data,
	}}
	handler := NewHandler(engine.New(engine.Config{}), &fakeQueueClient{}, ins, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/job-1", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status   string                `json:"status"`
		Analysis models.AnalysisResult `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 7, resp.Analysis.WordCount)
}

func TestHandleJobStatusNotFound(t *testing.T) {
	ins := &fakeInspector{err: fmt.Errorf("task not found")}
	handler := NewHandler(engine.New(engine.Config{}), &fakeQueueClient{}, ins, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/jobs/missing", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleHealth(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
