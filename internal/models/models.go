package models

// AnalysisRequest is the payload accepted by the analyze endpoints.
type AnalysisRequest struct {
	Text    string           `json:"text"`
	Options *AnalysisOptions `json:"options,omitempty"`
}

// AnalysisOptions toggles individual result sections. Every flag defaults
// to true: a nil flag, a partial options object, or a missing options
// object all leave the corresponding section enabled. Use the accessor
// methods rather than reading the fields.
type AnalysisOptions struct {
	IncludeReadability *bool `json:"includeReadability,omitempty"`
	IncludeSentiment   *bool `json:"includeSentiment,omitempty"`
	IncludeTopics      *bool `json:"includeTopics,omitempty"`
	IncludeGrammar     *bool `json:"includeGrammar,omitempty"`
}

// Flag returns a pointer to b, for building options literals.
func Flag(b bool) *bool {
	return &b
}

func enabled(flag *bool) bool {
	return flag == nil || *flag
}

// Readability reports whether the readability section is enabled.
func (o *AnalysisOptions) Readability() bool {
	return o == nil || enabled(o.IncludeReadability)
}

// Sentiment reports whether the sentiment section is enabled.
func (o *AnalysisOptions) Sentiment() bool {
	return o == nil || enabled(o.IncludeSentiment)
}

// Topics reports whether the keyword section is enabled.
func (o *AnalysisOptions) Topics() bool {
	return o == nil || enabled(o.IncludeTopics)
}

// Grammar reports whether the grammar and metrics section is enabled.
func (o *AnalysisOptions) Grammar() bool {
	return o == nil || enabled(o.IncludeGrammar)
}

// LexicalMetrics contains the raw counting statistics of a text.
type LexicalMetrics struct {
	WordCount          int     `json:"wordCount"`
	SentenceCount      int     `json:"sentenceCount"`
	AvgWordLength      float64 `json:"avgWordLength"`
	AvgSentenceLength  float64 `json:"avgSentenceLength"`
	ReadingTimeMinutes int     `json:"readingTime"`
}

// Complexity buckets a text by word count.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// EducationalLevel buckets a text by average word length.
type EducationalLevel string

const (
	LevelMiddleSchool EducationalLevel = "Middle School Level"
	LevelHighSchool   EducationalLevel = "High School Level"
	LevelCollege      EducationalLevel = "College Level"
)

// ReadabilityResult holds the readability score and its derived bands.
type ReadabilityResult struct {
	Score            int              `json:"score"`
	Complexity       Complexity       `json:"complexity"`
	EducationalLevel EducationalLevel `json:"educationalLevel"`
}

// Sentiment is the polarity classification of a text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// QualityResult holds the heuristic sub-scores. All sub-scores are
// integers on a single 0-100 scale.
type QualityResult struct {
	GrammarScore        int       `json:"grammarScore"`
	VocabularyDiversity int       `json:"vocabularyDiversity"`
	Clarity             int       `json:"clarity"`
	Tone                int       `json:"tone"`
	Correctness         int       `json:"correctness"`
	Originality         int       `json:"originality"`
	Sentiment           Sentiment `json:"sentiment"`
	CredibilityScore    int       `json:"credibilityScore"`
	Suggestions         []string  `json:"suggestions"`
}

// QualityMetrics is the credibility-report projection of the sub-scores.
type QualityMetrics struct {
	Clarity     int `json:"clarity"`
	Tone        int `json:"tone"`
	Correctness int `json:"correctness"`
	Originality int `json:"originality"`
}

// Source is a fact-checking outlet suggested for a content category.
type Source struct {
	Name             string `json:"name"`
	URL              string `json:"url"`
	CredibilityScore int    `json:"credibility_score"`
}

// RawMeta carries analysis bookkeeping the UI surfaces in its raw view.
type RawMeta struct {
	AnalyzedAtEpochMs int64 `json:"ts"`
}

// AnalysisResult is the aggregate response for one analyze call. Field
// names follow the two consuming UI variants: camelCase for the text
// analyzer fields, snake_case for the credibility-report extension.
type AnalysisResult struct {
	ReadabilityScore    int              `json:"readabilityScore"`
	Sentiment           Sentiment        `json:"sentiment,omitempty"`
	KeyTopics           []string         `json:"keyTopics,omitempty"`
	KeyEntities         []string         `json:"key_entities,omitempty"`
	WordCount           int              `json:"wordCount"`
	SentenceCount       int              `json:"sentenceCount"`
	AvgWordLength       float64          `json:"avgWordLength"`
	AvgSentenceLength   float64          `json:"avgSentenceLength"`
	ReadingTime         int              `json:"readingTime"`
	Complexity          Complexity       `json:"complexity,omitempty"`
	EducationalLevel    EducationalLevel `json:"educationalLevel,omitempty"`
	GrammarScore        int              `json:"grammarScore"`
	VocabularyDiversity int              `json:"vocabularyDiversity"`
	Suggestions         []string         `json:"suggestions"`

	CredibilityScore int             `json:"credibility_score"`
	Category         string          `json:"category,omitempty"`
	ReportSummary    string          `json:"report_summary,omitempty"`
	Metrics          *QualityMetrics `json:"metrics,omitempty"`
	Sources          []Source        `json:"sources,omitempty"`
	FormalReport     string          `json:"formal_report,omitempty"`

	Raw RawMeta `json:"raw"`
}
