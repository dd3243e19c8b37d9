// Package report produces the credibility-report fields: content category,
// suggested fact-checking sources, and the formal report letter. All
// output is a deterministic function of the analysis results.
package report

import (
	"fmt"
	"strings"

	"github.com/zombar/credengine/internal/models"
	"github.com/zombar/credengine/internal/tokenizer"
)

// lowCredibilityThreshold marks content flagged as potential misinformation.
const lowCredibilityThreshold = 40

// Report is the credibility-report extension of an analysis result.
type Report struct {
	Category     string
	Summary      string
	Sources      []models.Source
	FormalReport string
}

// topic is a fixed classification bucket. Buckets are evaluated in order;
// the highest hit count wins and earlier buckets win ties.
type topic struct {
	name    string
	terms   map[string]bool
	sources []models.Source
}

func topics() []topic {
	return []topic{
		{
			name: "Health",
			terms: wordSet("health", "medical", "medicine", "doctor", "doctors", "disease", "cure",
				"cures", "vaccine", "vaccines", "treatment", "symptoms", "diet", "nutrition",
				"cancer", "virus", "drug", "drugs", "aging", "remedy", "supplement", "supplements"),
			sources: []models.Source{
				{Name: "Reuters | Fact Check", URL: "https://www.reuters.com/fact-check", CredibilityScore: 95},
				{Name: "Health Feedback", URL: "https://healthfeedback.org", CredibilityScore: 93},
				{Name: "WHO | Mythbusters", URL: "https://www.who.int/emergencies/diseases/novel-coronavirus-2019/advice-for-public/myth-busters", CredibilityScore: 94},
			},
		},
		{
			name: "Politics",
			terms: wordSet("election", "elections", "government", "president", "senate", "congress",
				"vote", "votes", "voting", "policy", "policies", "campaign", "candidate", "candidates",
				"ballot", "ballots", "parliament", "minister", "legislation"),
			sources: []models.Source{
				{Name: "AP News | Fact Check", URL: "https://apnews.com/ap-fact-check", CredibilityScore: 92},
				{Name: "PolitiFact", URL: "https://www.politifact.com", CredibilityScore: 90},
				{Name: "Reuters | Fact Check", URL: "https://www.reuters.com/fact-check", CredibilityScore: 95},
			},
		},
		{
			name: "Finance",
			terms: wordSet("money", "investment", "investments", "crypto", "cryptocurrency", "bitcoin",
				"stock", "stocks", "market", "markets", "bank", "banks", "profit", "profits",
				"earnings", "currency", "wealth", "dollars", "inflation", "economy"),
			sources: []models.Source{
				{Name: "Reuters | Fact Check", URL: "https://www.reuters.com/fact-check", CredibilityScore: 95},
				{Name: "FactCheck.org", URL: "https://www.factcheck.org", CredibilityScore: 91},
			},
		},
		{
			name: "Science & Technology",
			terms: wordSet("science", "scientific", "scientists", "research", "study", "studies",
				"climate", "energy", "technology", "experiment", "experiments", "data", "evidence",
				"physics", "chemistry", "biology", "space", "quantum"),
			sources: []models.Source{
				{Name: "Science Feedback", URL: "https://science.feedback.org", CredibilityScore: 92},
				{Name: "AP News | Fact Check", URL: "https://apnews.com/ap-fact-check", CredibilityScore: 92},
			},
		},
	}
}

func generalSources() []models.Source {
	return []models.Source{
		{Name: "Reuters | Fact Check", URL: "https://www.reuters.com/fact-check", CredibilityScore: 95},
		{Name: "AP News | Fact Check", URL: "https://apnews.com/ap-fact-check", CredibilityScore: 92},
		{Name: "Snopes", URL: "https://www.snopes.com", CredibilityScore: 88},
	}
}

// Build classifies the text into a category, selects matching fact-check
// sources, and renders the summary and formal report.
func Build(keywords []string, words []tokenizer.Word, credibility int) Report {
	category, sources := classify(words)
	if credibility < lowCredibilityThreshold {
		category += " Misinformation"
	}

	summary := buildSummary(category, keywords, credibility)

	return Report{
		Category:     category,
		Summary:      summary,
		Sources:      sources,
		FormalReport: buildFormalReport(category, summary, credibility),
	}
}

// classify counts topic-term hits over the lowercased words. The highest
// count wins; fixed bucket order breaks ties; no hits means General.
func classify(words []tokenizer.Word) (string, []models.Source) {
	best := -1
	bestCount := 0
	buckets := topics()

	for i, tp := range buckets {
		count := 0
		for _, w := range words {
			if tp.terms[w.Lower] {
				count++
			}
		}
		if count > bestCount {
			best = i
			bestCount = count
		}
	}

	if best < 0 {
		return "General", generalSources()
	}
	return buckets[best].name, buckets[best].sources
}

func buildSummary(category string, keywords []string, credibility int) string {
	entities := "no salient entities"
	if len(keywords) > 0 {
		entities = strings.Join(keywords, ", ")
	}
	return fmt.Sprintf(
		"The submitted content was categorized as %s with a credibility score of %d out of 100. Key entities identified: %s.",
		category, credibility, entities)
}

func buildFormalReport(category, summary string, credibility int) string {
	var b strings.Builder

	b.WriteString("To Whom It May Concern,\n\n")
	if credibility < lowCredibilityThreshold {
		b.WriteString("I am reporting a piece of online content for promoting potential misinformation.\n\n")
	} else {
		b.WriteString("This is an automated credibility assessment of a piece of online content.\n\n")
	}
	fmt.Fprintf(&b, "Category: %s\n\n", category)
	fmt.Fprintf(&b, "Analysis: %s\n\n", summary)
	if credibility < lowCredibilityThreshold {
		b.WriteString("I request that you review this content for potential violation of your platform's policies.\n\n")
	} else {
		b.WriteString("No action is requested; this assessment is provided for reference.\n\n")
	}
	b.WriteString("Thank you.")

	return b.String()
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
