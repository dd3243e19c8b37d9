// Package tokenizer splits raw text into words and sentences under fixed,
// locale-stable rules. All functions are pure and O(n) in text length.
package tokenizer

import (
	"regexp"
	"strings"
)

var (
	wordPattern     = regexp.MustCompile(`\b\w+\b`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// Word is a single token with its display form and a lowercased copy.
type Word struct {
	Display string
	Lower   string
}

// Words extracts all word tokens from text in order. Whitespace-only or
// empty input yields an empty slice.
func Words(text string) []Word {
	matches := wordPattern.FindAllString(text, -1)
	words := make([]Word, 0, len(matches))
	for _, m := range matches {
		words = append(words, Word{Display: m, Lower: strings.ToLower(m)})
	}
	return words
}

// Lowered returns just the lowercased forms of the given words.
func Lowered(words []Word) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Lower
	}
	return out
}

// Sentences splits text on runs of terminal punctuation, trims the pieces,
// and drops any piece without at least one word.
func Sentences(text string) []string {
	parts := sentencePattern.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if wordPattern.FindStringIndex(p) == nil {
			continue
		}
		sentences = append(sentences, p)
	}
	return sentences
}

// WordsIn counts whitespace-separated words inside a single sentence.
func WordsIn(sentence string) int {
	return len(strings.Fields(sentence))
}
