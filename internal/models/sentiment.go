package models

// Sentiment categories, ordered from most positive to most negative.
const (
	SentimentVeryPositive = "very positive"
	SentimentPositive     = "positive"
	SentimentNeutral      = "neutral"
	SentimentNegative     = "negative"
	SentimentVeryNegative = "very negative"
)

type SentimentRequest struct {
	Text string `json:"text"`
}

// SentimentResult is the category/score/magnitude triple returned to clients.
// Score is in [-1, 1]; Magnitude is non-negative.
type SentimentResult struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}

// NeutralSentiment is returned whenever scoring is unavailable or fails.
func NeutralSentiment() SentimentResult {
	return SentimentResult{Sentiment: SentimentNeutral}
}
