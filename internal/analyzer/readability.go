package analyzer

import (
	"strings"

	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/tokenizer"
)

// Complexity thresholds are word-count based: up to 200 words is simple,
// up to 500 moderate, beyond that complex.
const (
	simpleWordLimit   = 200
	moderateWordLimit = 500
)

// Educational-level thresholds over average word length in characters.
const (
	collegeAvgWordLength    = 6
	highSchoolAvgWordLength = 5
)

// ScoreReadability computes the Flesch Reading Ease score clamped to
// [0,100] plus the complexity and educational-level bands. Higher scores
// mean easier text.
func (a *Analyzer) ScoreReadability(words []tokenizer.Word, sentences []string, lex models.LexicalMetrics) models.ReadabilityResult {
	return models.ReadabilityResult{
		Score:            fleschScore(words, len(sentences)),
		Complexity:       complexityFor(lex.WordCount),
		EducationalLevel: educationalLevelFor(lex.AvgWordLength),
	}
}

// fleschScore computes 206.835 - 1.015*(words/sentence) - 84.6*(syllables/word),
// rounded and clamped to [0,100].
func fleschScore(words []tokenizer.Word, sentenceCount int) int {
	if len(words) == 0 || sentenceCount == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w.Lower)
	}

	avgWordsPerSentence := float64(len(words)) / float64(sentenceCount)
	avgSyllablesPerWord := float64(syllables) / float64(len(words))

	return clampScore(206.835 - 1.015*avgWordsPerSentence - 84.6*avgSyllablesPerWord)
}

// countSyllables approximates the syllable count of a lowercased word by
// counting vowel groups, with a silent-e adjustment.
func countSyllables(word string) int {
	if len(word) == 0 {
		return 0
	}

	count := 0
	vowels := "aeiouy"
	prevWasVowel := false

	for _, char := range word {
		isVowel := strings.ContainsRune(vowels, char)
		if isVowel && !prevWasVowel {
			count++
		}
		prevWasVowel = isVowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}

	if count == 0 {
		count = 1
	}

	return count
}

func complexityFor(wordCount int) models.Complexity {
	switch {
	case wordCount <= simpleWordLimit:
		return models.ComplexitySimple
	case wordCount <= moderateWordLimit:
		return models.ComplexityModerate
	default:
		return models.ComplexityComplex
	}
}

func educationalLevelFor(avgWordLength float64) models.EducationalLevel {
	switch {
	case avgWordLength > collegeAvgWordLength:
		return models.LevelCollege
	case avgWordLength > highSchoolAvgWordLength:
		return models.LevelHighSchool
	default:
		return models.LevelMiddleSchool
	}
}
