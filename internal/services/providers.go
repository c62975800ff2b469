package services

import "context"

const (
	providerGemini     = "gemini"
	providerOpenAI     = "openai"
	providerElevenLabs = "elevenlabs"
	providerLanguage   = "google-language"
)

// TextGenerator returns generated text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer opens a streaming synthesis of text in the given voice.
// The caller owns the returned stream and must close it.
type SpeechSynthesizer interface {
	SynthesizeStream(ctx context.Context, text, voiceID string) (*AudioStream, error)
}

// SentimentScorer returns a raw document sentiment for text.
type SentimentScorer interface {
	ScoreSentiment(ctx context.Context, text string) (Score, error)
}

// Score is a provider sentiment: Score in [-1, 1], Magnitude >= 0.
type Score struct {
	Score     float64
	Magnitude float64
}
