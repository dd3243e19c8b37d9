package analyzer

import (
	"math"

	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/tokenizer"
)

// neutralDeadZone is the polarity band classified as neutral.
const neutralDeadZone = 0.1

// ScoreSentiment performs lexicon-based polarity classification. The net
// polarity score is normalized to [-1, 1]; values inside the dead zone
// around zero classify as neutral.
func (a *Analyzer) ScoreSentiment(words []tokenizer.Word) (models.Sentiment, float64) {
	if len(words) == 0 {
		return models.SentimentNeutral, 0
	}

	positiveCount := 0
	negativeCount := 0
	for _, w := range words {
		if a.positiveWords[w.Lower] {
			positiveCount++
		}
		if a.negativeWords[w.Lower] {
			negativeCount++
		}
	}

	if positiveCount+negativeCount == 0 {
		return models.SentimentNeutral, 0
	}

	score := (float64(positiveCount) - float64(negativeCount)) / float64(len(words))
	score = math.Max(-1.0, math.Min(1.0, score*10))
	score = math.Round(score*100) / 100

	switch {
	case score > neutralDeadZone:
		return models.SentimentPositive, score
	case score < -neutralDeadZone:
		return models.SentimentNegative, score
	default:
		return models.SentimentNeutral, score
	}
}
