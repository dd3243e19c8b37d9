package analyzer

import (
	"strings"
	"unicode"

	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/tokenizer"
)

// Suggestion messages, evaluated in fixed precedence. At most four are
// returned and the affirming message is always appended last if room
// remains.
const (
	suggestShorterSentences = "Consider breaking up longer sentences for better readability"
	suggestFewerIntensifers = "Try using more specific adjectives instead of intensifiers"
	suggestMoreElaboration  = "Consider expanding your content with more detailed explanations"
	suggestTransitions      = "Add transitional phrases so consecutive sentences flow together"
	suggestPositive         = "Great work on your content structure!"
)

const (
	maxSuggestions        = 4
	longSentenceThreshold = 25
	minSentencesForDepth  = 3
)

// ScoreQuality combines the lexical and sentiment signals into the
// heuristic sub-scores and the ranked suggestion list. The sentiment
// classification and polarity come from the caller's sentiment stage.
// Every sub-score is a deterministic function of the input text, clamped
// to 0-100.
func (a *Analyzer) ScoreQuality(text string, words []tokenizer.Word, sentences []string, lex models.LexicalMetrics, sentiment models.Sentiment, polarity float64) models.QualityResult {
	diversity := vocabularyDiversity(words)
	grammar := a.grammarScore(text, words, lex)
	clarity := clarityScore(words, lex)
	tone := toneScore(text, words, polarity)
	correctness := correctnessScore(text, sentences)
	originality := originalityScore(words, diversity)

	credibility := clampScore(
		0.25*float64(grammar) +
			0.20*float64(diversity) +
			0.15*float64(clarity) +
			0.15*float64(correctness) +
			0.15*float64(originality) +
			0.10*float64(tone))

	return models.QualityResult{
		GrammarScore:        grammar,
		VocabularyDiversity: diversity,
		Clarity:             clarity,
		Tone:                tone,
		Correctness:         correctness,
		Originality:         originality,
		Sentiment:           sentiment,
		CredibilityScore:    credibility,
		Suggestions:         a.suggestions(words, sentences, lex),
	}
}

// vocabularyDiversity is the unique-to-total word ratio on the 0-100 scale.
func vocabularyDiversity(words []tokenizer.Word) int {
	if len(words) == 0 {
		return 0
	}
	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[w.Lower] = true
	}
	return clampScore(float64(len(unique)) / float64(len(words)) * 100)
}

// grammarScore starts from 100 and penalizes overlong sentences, vague
// intensifiers, excessive exclamation, and shouting.
func (a *Analyzer) grammarScore(text string, words []tokenizer.Word, lex models.LexicalMetrics) int {
	if len(words) == 0 {
		return 0
	}

	score := 100.0

	if lex.AvgSentenceLength > longSentenceThreshold {
		score -= 15
	}
	if lex.AvgSentenceLength > 40 {
		score -= 10
	}

	intensifierPenalty := float64(a.countIntensifiers(words)) * 3
	if intensifierPenalty > 15 {
		intensifierPenalty = 15
	}
	score -= intensifierPenalty

	exclamations := strings.Count(text, "!")
	if exclamations > 5 && exclamations > len(words)/10 {
		score -= 10
	}

	if uppercaseRatio(text) > 0.5 {
		score -= 20
	}

	return clampScore(score)
}

// clarityScore rewards sentences inside the 10-25 word band and the
// presence of transition words.
func clarityScore(words []tokenizer.Word, lex models.LexicalMetrics) int {
	if lex.SentenceCount == 0 {
		return 0
	}

	score := 90.0
	switch {
	case lex.AvgSentenceLength < 10:
		score -= 2.5 * (10 - lex.AvgSentenceLength)
	case lex.AvgSentenceLength > longSentenceThreshold:
		score -= 2.5 * (lex.AvgSentenceLength - longSentenceThreshold)
	}

	bonus := transitionDensity(words, lex.SentenceCount) * 20
	if bonus > 10 {
		bonus = 10
	}
	score += bonus

	return clampScore(score)
}

// toneScore reflects the measured polarity and penalizes shouting.
func toneScore(text string, words []tokenizer.Word, polarity float64) int {
	if len(words) == 0 {
		return 0
	}

	score := 70.0 + polarity*20

	if uppercaseRatio(text) > 0.5 {
		score -= 20
	}

	exclamations := strings.Count(text, "!")
	if exclamations > 5 && exclamations > len(words)/10 {
		score -= 10
	}

	return clampScore(score)
}

// correctnessScore checks sentence capitalization and terminal punctuation
// discipline.
func correctnessScore(text string, sentences []string) int {
	if len(sentences) == 0 {
		return 0
	}

	capitalized := 0
	for _, s := range sentences {
		for _, r := range s {
			if unicode.IsUpper(r) {
				capitalized++
			}
			break
		}
	}
	capRatio := float64(capitalized) / float64(len(sentences))

	score := capRatio * 70
	if trimmed := strings.TrimSpace(text); trimmed != "" && strings.ContainsAny(trimmed[len(trimmed)-1:], ".!?") {
		score += 30
	} else {
		score += 10
	}

	return clampScore(score)
}

// originalityScore approximates originality via vocabulary diversity and
// the repeated-bigram rate.
func originalityScore(words []tokenizer.Word, diversity int) int {
	if len(words) == 0 {
		return 0
	}
	return clampScore(0.7*float64(diversity) + 0.3*(100-bigramRepetitionRate(words)))
}

// bigramRepetitionRate is the percentage of word bigrams that repeat an
// earlier bigram.
func bigramRepetitionRate(words []tokenizer.Word) float64 {
	if len(words) < 2 {
		return 0
	}

	seen := make(map[string]bool, len(words))
	repeats := 0
	for i := 0; i < len(words)-1; i++ {
		bigram := words[i].Lower + " " + words[i+1].Lower
		if seen[bigram] {
			repeats++
		}
		seen[bigram] = true
	}

	return float64(repeats) / float64(len(words)-1) * 100
}

// transitionDensity counts transition-word occurrences per sentence.
// Matching is per whole token: "then" inside "authentic" does not count.
func transitionDensity(words []tokenizer.Word, sentenceCount int) float64 {
	if sentenceCount == 0 {
		return 0
	}

	count := 0
	for i, w := range words {
		if transitionSingles[w.Lower] {
			count++
			continue
		}
		for _, phrase := range transitionPhrases {
			if matchesPhrase(words[i:], phrase) {
				count++
				break
			}
		}
	}

	return float64(count) / float64(sentenceCount)
}

// matchesPhrase reports whether words opens with the given token sequence.
func matchesPhrase(words []tokenizer.Word, phrase []string) bool {
	if len(words) < len(phrase) {
		return false
	}
	for i, p := range phrase {
		if words[i].Lower != p {
			return false
		}
	}
	return true
}

// uppercaseRatio is the fraction of letters that are uppercase.
func uppercaseRatio(text string) float64 {
	upper := 0
	lower := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			upper++
		} else if unicode.IsLower(r) {
			lower++
		}
	}
	if upper+lower == 0 {
		return 0
	}
	return float64(upper) / float64(upper+lower)
}

func (a *Analyzer) countIntensifiers(words []tokenizer.Word) int {
	count := 0
	for _, w := range words {
		if a.intensifiers[w.Lower] {
			count++
		}
	}
	return count
}

// suggestions evaluates the fixed rule list in precedence order. Each rule
// contributes at most one message; the affirming message is appended last
// and the list is truncated to four entries.
func (a *Analyzer) suggestions(words []tokenizer.Word, sentences []string, lex models.LexicalMetrics) []string {
	out := make([]string, 0, maxSuggestions)

	if lex.AvgSentenceLength > longSentenceThreshold {
		out = append(out, suggestShorterSentences)
	}
	if a.countIntensifiers(words) > 0 {
		out = append(out, suggestFewerIntensifers)
	}
	if len(sentences) < minSentencesForDepth {
		out = append(out, suggestMoreElaboration)
	}
	if !hasCapitalTransitions(sentences) {
		out = append(out, suggestTransitions)
	}

	out = append(out, suggestPositive)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}

	return out
}

// hasCapitalTransitions reports whether any sentence after the first opens
// with a capital letter, the boundary pattern connected prose carries.
// Single-sentence texts trivially satisfy it.
func hasCapitalTransitions(sentences []string) bool {
	if len(sentences) < 2 {
		return true
	}

	for _, s := range sentences[1:] {
		for _, r := range s {
			if unicode.IsUpper(r) {
				return true
			}
			break
		}
	}

	return false
}
