// Package analyzer implements the heuristic v1 scoring model: lexical
// metrics, readability, keyword extraction, sentiment, and quality
// scoring. Every function is a pure, deterministic function of its input;
// repeated calls over the same text produce identical results.
package analyzer

import (
	"math"

	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/tokenizer"
)

// wordsPerMinute is the reading speed used for reading-time estimates.
const wordsPerMinute = 200

// Analyzer holds the fixed lexicons shared by all scoring stages. It is
// immutable after construction and safe for concurrent use.
type Analyzer struct {
	stopWords     map[string]bool
	positiveWords map[string]bool
	negativeWords map[string]bool
	intensifiers  map[string]bool
}

// New creates an Analyzer with the built-in English lexicons.
func New() *Analyzer {
	return &Analyzer{
		stopWords:     getStopWords(),
		positiveWords: getPositiveWords(),
		negativeWords: getNegativeWords(),
		intensifiers:  getIntensifiers(),
	}
}

// ComputeLexical calculates the counting statistics for a tokenized text.
// It never fails; empty input yields all-zero metrics.
func ComputeLexical(words []tokenizer.Word, sentences []string) models.LexicalMetrics {
	m := models.LexicalMetrics{
		WordCount:     len(words),
		SentenceCount: len(sentences),
	}

	if len(words) > 0 {
		total := 0
		for _, w := range words {
			total += len(w.Display)
		}
		m.AvgWordLength = float64(total) / float64(len(words))
		m.ReadingTimeMinutes = int(math.Ceil(float64(len(words)) / wordsPerMinute))
	}

	if len(sentences) > 0 {
		total := 0
		for _, s := range sentences {
			total += tokenizer.WordsIn(s)
		}
		m.AvgSentenceLength = float64(total) / float64(len(sentences))
	}

	return m
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(math.Round(score))
}
