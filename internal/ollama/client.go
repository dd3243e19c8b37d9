// Package ollama provides optional LLM enrichment of the formal
// credibility report. The engine itself never calls out here; enrichment
// happens after analysis and any failure falls back to the deterministic
// template.
package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/zombar/credengine/internal/models"
)

const (
	DefaultModel   = "gpt-oss:20b"
	DefaultTimeout = 120 * time.Second
)

// Client wraps the Ollama API client.
type Client struct {
	client  *api.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a new Ollama client.
func New(ollamaURL, model string) (*Client, error) {
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}
	if model == "" {
		model = DefaultModel
	}

	baseURL, err := url.Parse(ollamaURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama URL: %w", err)
	}

	return &Client{
		client:  api.NewClient(baseURL, http.DefaultClient),
		model:   model,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}, nil
}

// generate sends a prompt and accumulates the streamed response.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: new(bool), // false
	}

	var response strings.Builder
	err := c.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	return strings.TrimSpace(response.String()), nil
}

// EnrichReport rewrites the deterministic formal report into a fuller
// letter using the computed analysis as grounding. The submitted text is
// never included in the prompt, preserving the no-persistence stance.
func (c *Client) EnrichReport(ctx context.Context, result *models.AnalysisResult) (string, error) {
	prompt := fmt.Sprintf(`You are drafting a formal content-review letter.
Rewrite the report below into a clear, professional letter. Keep the
category, the credibility score of %d out of 100, and the key entities
(%s) intact. Do not invent facts beyond the provided analysis.

Report:
%s`,
		result.CredibilityScore,
		strings.Join(result.KeyEntities, ", "),
		result.FormalReport,
	)

	report, err := c.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if report == "" {
		return "", fmt.Errorf("empty enrichment response")
	}

	c.logger.Debug("formal report enriched", "model", c.model, "length", len(report))
	return report, nil
}
