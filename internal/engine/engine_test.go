package engine

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zombar/credengine/internal/analyzer"
	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/tokenizer"
)

// slowQuality delays the quality stage so the pipeline overruns its
// deadline.
type slowQuality struct {
	delay time.Duration
	inner *analyzer.Analyzer
}

func (s slowQuality) ScoreQuality(text string, words []tokenizer.Word, sentences []string, lex models.LexicalMetrics, sentiment models.Sentiment, polarity float64) models.QualityResult {
	time.Sleep(s.delay)
	return s.inner.ScoreQuality(text, words, sentences, lex, sentiment, polarity)
}

// blockingQuality parks the quality stage until released, to hold a worker
// slot open.
type blockingQuality struct {
	entered chan struct{}
	release chan struct{}
	inner   *analyzer.Analyzer
}

func (b blockingQuality) ScoreQuality(text string, words []tokenizer.Word, sentences []string, lex models.LexicalMetrics, sentiment models.Sentiment, polarity float64) models.QualityResult {
	close(b.entered)
	<-b.release
	return b.inner.ScoreQuality(text, words, sentences, lex, sentiment, polarity)
}

// fixedSentiment reports the same polarity for every text.
type fixedSentiment struct {
	sentiment models.Sentiment
	polarity  float64
}

func (f fixedSentiment) ScoreSentiment(words []tokenizer.Word) (models.Sentiment, float64) {
	return f.sentiment, f.polarity
}

func TestAnalyzeBasic(t *testing.T) {
	e := New(Config{})

	result, err := e.Analyze(context.Background(), models.AnalysisRequest{Text: "one two three"})
	require.NoError(t, err)
	assert.Equal(t, 3, result.WordCount)
	assert.Equal(t, 1, result.SentenceCount)
	assert.Equal(t, models.ComplexitySimple, result.Complexity)
	assert.NotEmpty(t, result.Suggestions)
	assert.NotZero(t, result.Raw.AnalyzedAtEpochMs)
}

func TestAnalyzeEmptyText(t *testing.T) {
	e := New(Config{})

	tests := []string{"", "   ", "\n\t "}
	for _, text := range tests {
		_, err := e.Analyze(context.Background(), models.AnalysisRequest{Text: text})
		assert.ErrorIs(t, err, ErrInvalidInput, "text %q", text)
	}
}

func TestAnalyzePayloadTooLarge(t *testing.T) {
	e := New(Config{MaxTextChars: 100})

	_, err := e.Analyze(context.Background(), models.AnalysisRequest{
		Text: strings.Repeat("word ", 50),
	})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}

func TestAnalyzeDeterministic(t *testing.T) {
	e := New(Config{})
	req := models.AnalysisRequest{
		Text: "Climate change is a pressing global issue. Scientists have documented rising temperatures. The evidence is very clear to researchers.",
	}

	first, err := e.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := e.Analyze(context.Background(), req)
	require.NoError(t, err)

	// Timestamps differ; everything else must match.
	first.Raw = models.RawMeta{}
	second.Raw = models.RawMeta{}
	assert.Equal(t, first, second)
}

func TestAnalyzeKeywordExclusion(t *testing.T) {
	e := New(Config{})

	result, err := e.Analyze(context.Background(), models.AnalysisRequest{
		Text: "the the the and and military military military treaty",
	})
	require.NoError(t, err)

	assert.NotContains(t, result.KeyTopics, "the")
	assert.NotContains(t, result.KeyTopics, "and")
	require.Len(t, result.KeyTopics, 2)
	assert.Equal(t, "military", result.KeyTopics[0])
	assert.Equal(t, result.KeyTopics, result.KeyEntities)
}

func TestAnalyzeOptionsGateSections(t *testing.T) {
	e := New(Config{})
	opts := models.AnalysisOptions{
		IncludeReadability: models.Flag(false),
		IncludeSentiment:   models.Flag(false),
		IncludeTopics:      models.Flag(false),
		IncludeGrammar:     models.Flag(false),
	}

	result, err := e.Analyze(context.Background(), models.AnalysisRequest{
		Text:    "Some text worth analyzing. It has two sentences.",
		Options: &opts,
	})
	require.NoError(t, err)

	assert.Zero(t, result.ReadabilityScore)
	assert.Empty(t, result.Complexity)
	assert.Empty(t, result.Sentiment)
	assert.Empty(t, result.KeyTopics)
	assert.Nil(t, result.Metrics)
	assert.NotZero(t, result.WordCount, "lexical counts are always present")
}

func TestAnalyzePartialOptionsDefaultEnabled(t *testing.T) {
	e := New(Config{})

	// Only topics disabled; every unmentioned section stays on.
	result, err := e.Analyze(context.Background(), models.AnalysisRequest{
		Text:    "Research evidence suggests steady progress. The study documented measurable results. Further work continues.",
		Options: &models.AnalysisOptions{IncludeTopics: models.Flag(false)},
	})
	require.NoError(t, err)

	assert.Empty(t, result.KeyTopics)
	assert.NotZero(t, result.ReadabilityScore)
	assert.NotEmpty(t, result.Complexity)
	assert.NotEmpty(t, result.Sentiment)
	assert.NotNil(t, result.Metrics)
}

func TestAnalyzeUsesInjectedSentimentScorer(t *testing.T) {
	a := analyzer.New()
	e := NewWithScorers(Config{}, a,
		fixedSentiment{sentiment: models.SentimentNegative, polarity: -0.8}, a, a)

	result, err := e.Analyze(context.Background(), models.AnalysisRequest{
		Text: "This wonderful excellent outcome delighted everyone. The brilliant work impressed reviewers. Results were outstanding.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.SentimentNegative, result.Sentiment)
	// Tone consumes the injected polarity: 70 + (-0.8 * 20).
	require.NotNil(t, result.Metrics)
	assert.Equal(t, 54, result.Metrics.Tone)
}

func TestAnalyzeTimeout(t *testing.T) {
	a := analyzer.New()
	e := NewWithScorers(Config{Timeout: 20 * time.Millisecond}, a, a,
		slowQuality{delay: 200 * time.Millisecond, inner: a}, a)

	_, err := e.Analyze(context.Background(), models.AnalysisRequest{Text: "slow text"})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestAnalyzeCancelled(t *testing.T) {
	e := New(Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Analyze(ctx, models.AnalysisRequest{Text: "cancelled before it began"})
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestAnalyzeOverloaded(t *testing.T) {
	a := analyzer.New()
	bq := blockingQuality{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		inner:   a,
	}
	e := NewWithScorers(Config{Workers: 1, Timeout: 5 * time.Second}, a, a, bq, a)

	done := make(chan error, 1)
	go func() {
		_, err := e.Analyze(context.Background(), models.AnalysisRequest{Text: "holds the only slot"})
		done <- err
	}()

	<-bq.entered

	_, err := e.Analyze(context.Background(), models.AnalysisRequest{Text: "rejected immediately"})
	assert.ErrorIs(t, err, ErrOverloaded)

	close(bq.release)
	require.NoError(t, <-done)
}

func TestResultJSONRoundTrip(t *testing.T) {
	e := New(Config{})

	result, err := e.Analyze(context.Background(), models.AnalysisRequest{
		Text: "The doctor recommended a very specific treatment. Patients responded well. Further studies are planned.",
	})
	require.NoError(t, err)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded models.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, *result, decoded)
}

func TestReadingTimeMonotonic(t *testing.T) {
	e := New(Config{})

	small, err := e.Analyze(context.Background(), models.AnalysisRequest{Text: strings.Repeat("brief text here. ", 20)})
	require.NoError(t, err)
	large, err := e.Analyze(context.Background(), models.AnalysisRequest{Text: strings.Repeat("brief text here. ", 200)})
	require.NoError(t, err)

	assert.LessOrEqual(t, small.ReadingTime, large.ReadingTime)
}
