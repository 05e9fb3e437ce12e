package models

// SentimentType is the polarity of an analyzed piece of text.
type SentimentType string

const (
	SentimentPositive SentimentType = "POSITIVE"
	SentimentNegative SentimentType = "NEGATIVE"
	SentimentNeutral  SentimentType = "NEUTRAL"
)

// ParseSentimentType maps a stored string to a SentimentType.
// The second return value is false for unknown values.
func ParseSentimentType(s string) (SentimentType, bool) {
	switch SentimentType(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return SentimentType(s), true
	}
	return "", false
}

// Sentiment is the result of one sentiment analysis run. It is immutable
// once constructed; re-analysis produces a new value.
type Sentiment struct {
	Type       SentimentType
	Confidence float64 // Always within [0, 1]
	SourceText string  // The text that produced this result
}

// NewSentiment constructs a Sentiment, clamping confidence into [0, 1].
// An unmeasurable confidence must be passed as 0, never as a sentinel.
func NewSentiment(t SentimentType, confidence float64, sourceText string) *Sentiment {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return &Sentiment{Type: t, Confidence: confidence, SourceText: sourceText}
}
