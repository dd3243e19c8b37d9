package analyzer

import (
	"sort"

	"github.com/zombar/credengine/internal/tokenizer"
)

const (
	maxKeywords      = 5
	minKeywordLength = 4
)

// ExtractKeywords returns the most frequent meaningful words, up to five.
// Words of length three or less and stop words are excluded. Ordering is
// by descending frequency with first-occurrence order breaking ties, so
// identical input always produces identical output.
func (a *Analyzer) ExtractKeywords(words []tokenizer.Word) []string {
	type entry struct {
		word  string
		count int
		first int
	}

	freq := make(map[string]*entry)
	for i, w := range words {
		if len(w.Lower) < minKeywordLength || a.stopWords[w.Lower] {
			continue
		}
		if e, ok := freq[w.Lower]; ok {
			e.count++
		} else {
			freq[w.Lower] = &entry{word: w.Lower, count: 1, first: i}
		}
	}

	entries := make([]*entry, 0, len(freq))
	for _, e := range freq {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].first < entries[j].first
	})

	keywords := make([]string, 0, maxKeywords)
	for i := 0; i < len(entries) && i < maxKeywords; i++ {
		keywords = append(keywords, entries[i].word)
	}

	return keywords
}
