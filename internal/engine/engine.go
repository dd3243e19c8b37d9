// Package engine orchestrates the analysis pipeline: input validation,
// tokenization, scoring stages, timeout and cancellation checks, and
// backpressure. The engine holds no state between requests and performs
// no I/O; given the same text and options, results are byte-identical
// apart from the timestamp field.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/zombar/credengine/internal/analyzer"
	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/report"
	"github.com/zombar/credengine/internal/tokenizer"
)

// Defaults applied when Config fields are zero.
const (
	DefaultMaxTextChars = 200_000
	DefaultTimeout      = 10 * time.Second
)

// ReadabilityScorer produces the readability result for a tokenized text.
type ReadabilityScorer interface {
	ScoreReadability(words []tokenizer.Word, sentences []string, lex models.LexicalMetrics) models.ReadabilityResult
}

// SentimentScorer classifies polarity for a tokenized text.
type SentimentScorer interface {
	ScoreSentiment(words []tokenizer.Word) (models.Sentiment, float64)
}

// QualityScorer produces the heuristic sub-scores and suggestions. The
// sentiment classification and polarity come from the SentimentScorer
// stage so the two remain independently substitutable.
type QualityScorer interface {
	ScoreQuality(text string, words []tokenizer.Word, sentences []string, lex models.LexicalMetrics, sentiment models.Sentiment, polarity float64) models.QualityResult
}

// KeywordExtractor returns the salient terms of a tokenized text.
type KeywordExtractor interface {
	ExtractKeywords(words []tokenizer.Word) []string
}

// Config controls the engine's resource limits.
type Config struct {
	MaxTextChars int
	Timeout      time.Duration
	// Workers bounds concurrent Analyze calls. Zero means GOMAXPROCS.
	Workers int
}

// Engine runs the fixed analysis pipeline. Safe for concurrent use.
type Engine struct {
	readability ReadabilityScorer
	sentiment   SentimentScorer
	quality     QualityScorer
	keywords    KeywordExtractor

	maxTextChars int
	timeout      time.Duration
	slots        chan struct{}
	logger       *slog.Logger
}

// New creates an Engine backed by the heuristic v1 scoring model.
func New(cfg Config) *Engine {
	a := analyzer.New()
	return NewWithScorers(cfg, a, a, a, a)
}

// NewWithScorers creates an Engine with explicit scoring stages, allowing
// the heuristic model to be swapped without changing the pipeline contract.
func NewWithScorers(cfg Config, r ReadabilityScorer, s SentimentScorer, q QualityScorer, k KeywordExtractor) *Engine {
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = DefaultMaxTextChars
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		readability:  r,
		sentiment:    s,
		quality:      q,
		keywords:     k,
		maxTextChars: cfg.MaxTextChars,
		timeout:      cfg.Timeout,
		slots:        make(chan struct{}, cfg.Workers),
		logger:       slog.Default(),
	}
}

// MaxTextChars returns the accepted text length limit, for callers that
// validate before handing work off.
func (e *Engine) MaxTextChars() int {
	return e.maxTextChars
}

// Analyze validates the request, runs the pipeline stages in order, and
// assembles the result. It fails fast with ErrOverloaded when all worker
// slots are taken rather than queuing unboundedly.
func (e *Engine) Analyze(ctx context.Context, req models.AnalysisRequest) (result *models.AnalysisResult, err error) {
	text := req.Text
	if strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(text) > e.maxTextChars {
		return nil, fmt.Errorf("%w: limit %d characters", ErrPayloadTooLarge, e.maxTextChars)
	}

	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	default:
		return nil, ErrOverloaded
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analysis stage panicked", "panic", r)
			result, err = nil, fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	started := time.Now()
	res, err := e.runPipeline(ctx, text, req.Options)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("analysis completed",
		"word_count", res.WordCount,
		"credibility_score", res.CredibilityScore,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return res, nil
}

// runPipeline executes the stages in their fixed order with a
// cancellation check at each stage boundary. No partial results: a
// deadline or cancellation anywhere aborts the whole request.
func (e *Engine) runPipeline(ctx context.Context, text string, opts *models.AnalysisOptions) (*models.AnalysisResult, error) {
	words := tokenizer.Words(text)
	sentences := tokenizer.Sentences(text)
	if err := stageErr(ctx); err != nil {
		return nil, err
	}

	lex := analyzer.ComputeLexical(words, sentences)
	if err := stageErr(ctx); err != nil {
		return nil, err
	}

	var readability models.ReadabilityResult
	if opts.Readability() {
		readability = e.readability.ScoreReadability(words, sentences, lex)
		if err := stageErr(ctx); err != nil {
			return nil, err
		}
	}

	var keywords []string
	if opts.Topics() {
		keywords = e.keywords.ExtractKeywords(words)
		if err := stageErr(ctx); err != nil {
			return nil, err
		}
	}

	// Sentiment runs even when its section is gated off: the quality
	// stage consumes the polarity for its tone score.
	sentiment, polarity := e.sentiment.ScoreSentiment(words)
	if err := stageErr(ctx); err != nil {
		return nil, err
	}

	quality := e.quality.ScoreQuality(text, words, sentences, lex, sentiment, polarity)
	if err := stageErr(ctx); err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		WordCount:         lex.WordCount,
		SentenceCount:     lex.SentenceCount,
		AvgWordLength:     lex.AvgWordLength,
		AvgSentenceLength: lex.AvgSentenceLength,
		ReadingTime:       lex.ReadingTimeMinutes,
		CredibilityScore:  quality.CredibilityScore,
		Suggestions:       quality.Suggestions,
		Raw:               models.RawMeta{AnalyzedAtEpochMs: time.Now().UnixMilli()},
	}

	if opts.Readability() {
		result.ReadabilityScore = readability.Score
		result.Complexity = readability.Complexity
		result.EducationalLevel = readability.EducationalLevel
	}
	if opts.Sentiment() {
		result.Sentiment = quality.Sentiment
	}
	if opts.Topics() {
		result.KeyTopics = keywords
		result.KeyEntities = keywords
	}
	if opts.Grammar() {
		result.GrammarScore = quality.GrammarScore
		result.VocabularyDiversity = quality.VocabularyDiversity
		result.Metrics = &models.QualityMetrics{
			Clarity:     quality.Clarity,
			Tone:        quality.Tone,
			Correctness: quality.Correctness,
			Originality: quality.Originality,
		}
	}

	rep := report.Build(keywords, words, quality.CredibilityScore)
	result.Category = rep.Category
	result.ReportSummary = rep.Summary
	result.Sources = rep.Sources
	result.FormalReport = rep.FormalReport

	return result, nil
}

// stageErr maps a context fault to the engine's error kinds.
func stageErr(ctx context.Context) error {
	switch ctx.Err() {
	case nil:
		return nil
	case context.DeadlineExceeded:
		return ErrTimeout
	default:
		return ErrCancelled
	}
}
