package analyzer

import "strings"

// getStopWords returns common English function words excluded from keyword
// extraction. The set is the union of the usual article/conjunction/
// preposition/auxiliary lists used by both consuming UIs.
func getStopWords() map[string]bool {
	words := []string{
		"a", "about", "above", "after", "again", "against", "all", "am", "an", "and", "any", "are", "aren't",
		"as", "at", "be", "because", "been", "before", "being", "below", "between", "both", "but", "by",
		"can't", "cannot", "could", "couldn't", "did", "didn't", "do", "does", "doesn't", "doing", "don't",
		"down", "during", "each", "few", "for", "from", "further", "had", "hadn't", "has", "hasn't", "have",
		"haven't", "having", "he", "he'd", "he'll", "he's", "her", "here", "here's", "hers", "herself", "him",
		"himself", "his", "how", "how's", "i", "i'd", "i'll", "i'm", "i've", "if", "in", "into", "is", "isn't",
		"it", "it's", "its", "itself", "let's", "me", "more", "most", "mustn't", "my", "myself", "no", "nor",
		"not", "of", "off", "on", "once", "only", "or", "other", "ought", "our", "ours", "ourselves", "out",
		"over", "own", "same", "shan't", "she", "she'd", "she'll", "she's", "should", "shouldn't", "so", "some",
		"such", "than", "that", "that's", "the", "their", "theirs", "them", "themselves", "then", "there",
		"there's", "these", "they", "they'd", "they'll", "they're", "they've", "this", "those", "through", "to",
		"too", "under", "until", "up", "very", "was", "wasn't", "we", "we'd", "we'll", "we're", "we've", "were",
		"weren't", "what", "what's", "when", "when's", "where", "where's", "which", "while", "who", "who's",
		"whom", "why", "why's", "will", "with", "won't", "would", "wouldn't", "you", "you'd", "you'll", "you're",
		"you've", "your", "yours", "yourself", "yourselves",
	}

	stopWords := make(map[string]bool)
	for _, word := range words {
		stopWords[word] = true
	}
	return stopWords
}

// getPositiveWords returns common positive sentiment words.
func getPositiveWords() map[string]bool {
	words := []string{
		"good", "great", "excellent", "amazing", "wonderful", "fantastic", "best", "love", "loved", "loving",
		"beautiful", "perfect", "awesome", "brilliant", "outstanding", "superb", "exceptional", "incredible",
		"magnificent", "marvelous", "pleasant", "delightful", "enjoyable", "happy", "glad", "pleased",
		"satisfied", "terrific", "fabulous", "splendid", "impressive", "remarkable", "positive", "advantage",
		"benefit", "success", "successful", "win", "winning", "winner", "better", "improvement", "improved",
		"exciting", "excited", "enthusiasm", "enthusiastic", "optimistic", "hopeful", "promising", "favorable",
	}

	positive := make(map[string]bool)
	for _, word := range words {
		positive[word] = true
	}
	return positive
}

// getNegativeWords returns common negative sentiment words.
func getNegativeWords() map[string]bool {
	words := []string{
		"bad", "terrible", "awful", "horrible", "worst", "hate", "hated", "poor", "disappointing",
		"disappointed", "failure", "failed", "fail", "wrong", "broken", "useless", "worthless", "negative",
		"problem", "problems", "issue", "issues", "difficult", "hard", "trouble", "troubling", "concern",
		"concerning", "worried", "worry", "sad", "unhappy", "angry", "frustrated", "frustrating", "annoying",
		"annoyed", "disaster", "disastrous", "catastrophic", "devastating", "harmful", "dangerous", "risk",
		"risky", "threat", "threatening", "crisis", "damage", "damaged", "loss", "losing", "lose",
	}

	negative := make(map[string]bool)
	for _, word := range words {
		negative[word] = true
	}
	return negative
}

// getIntensifiers returns vague intensifier adverbs that weaken prose.
func getIntensifiers() map[string]bool {
	words := []string{
		"very", "really", "extremely", "incredibly", "totally", "absolutely", "literally", "quite",
	}

	intensifiers := make(map[string]bool)
	for _, word := range words {
		intensifiers[word] = true
	}
	return intensifiers
}

// transitionWords lists connective phrases that indicate flow between
// sentences. Matched case-insensitively against whole word tokens.
var transitionWords = []string{
	// Addition
	"additionally", "furthermore", "moreover", "also", "besides",
	// Contrast
	"however", "nevertheless", "nonetheless", "although", "despite", "yet",
	// Cause/Effect
	"therefore", "thus", "consequently", "hence", "accordingly", "as a result",
	// Sequence
	"first", "second", "third", "next", "then", "finally", "subsequently",
	// Example
	"for example", "for instance", "specifically", "namely",
	// Emphasis
	"indeed", "in fact", "certainly", "clearly",
}

// Split at init into single tokens and multi-token phrases so matching
// runs over word tokens, never raw substrings.
var (
	transitionSingles = make(map[string]bool)
	transitionPhrases [][]string
)

func init() {
	for _, t := range transitionWords {
		parts := strings.Fields(t)
		if len(parts) == 1 {
			transitionSingles[t] = true
		} else {
			transitionPhrases = append(transitionPhrases, parts)
		}
	}
}
