package main

import (
	"context"

	"github.com/StephanieNhiLe/savo-ai/internal/config"
	"github.com/StephanieNhiLe/savo-ai/internal/logging"
	"github.com/StephanieNhiLe/savo-ai/internal/models"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
)

// providers holds the adapters selected by configuration. Each is created once
// and shared read-only by the handlers.
type providers struct {
	generator   services.TextGenerator
	synthesizer services.SpeechSynthesizer
	scorer      services.SentimentScorer
	status      map[string]models.ProviderStatus
	closers     []func()
}

func (p *providers) Close() {
	for _, c := range p.closers {
		c()
	}
}

// reportSentiment marks the sentiment provider configured when the service
// actually has a scorer behind it.
func (p *providers) reportSentiment(svc *services.SentimentService) {
	status := p.status["sentiment"]
	status.Configured = svc.Available()
	p.status["sentiment"] = status
}

func buildProviders(ctx context.Context, cfg *config.Config) (*providers, error) {
	p := &providers{status: make(map[string]models.ProviderStatus)}

	openAI := services.NewOpenAIService(services.OpenAIConfig{
		APIKey:    cfg.OpenAIAPIKey,
		BaseURL:   cfg.OpenAIBaseURL,
		Model:     cfg.OpenAIModel,
		TTSModel:  cfg.OpenAITTSModel,
		ChunkSize: cfg.AudioChunkSize,
		Timeout:   cfg.UpstreamTimeout,
		Retries:   cfg.UpstreamRetries,
	})

	switch cfg.ChatProvider {
	case "openai":
		p.generator = openAI
		p.status["chat"] = models.ProviderStatus{Name: "openai", Configured: openAI.Configured()}
	default:
		gemini, err := services.NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, gemini.Close)
		p.generator = gemini
		p.status["chat"] = models.ProviderStatus{Name: "gemini", Configured: gemini.Configured()}
	}

	switch cfg.SpeechProvider {
	case "openai":
		p.synthesizer = openAI
		p.status["speech"] = models.ProviderStatus{Name: "openai", Configured: openAI.Configured()}
	default:
		el := services.NewElevenLabsService(services.ElevenLabsConfig{
			APIKey:    cfg.ElevenLabsAPIKey,
			BaseURL:   cfg.ElevenLabsBaseURL,
			ModelID:   cfg.ElevenLabsModelID,
			ChunkSize: cfg.AudioChunkSize,
			Timeout:   cfg.UpstreamTimeout,
			Retries:   cfg.UpstreamRetries,
		})
		p.synthesizer = el
		p.status["speech"] = models.ProviderStatus{Name: "elevenlabs", Configured: el.Configured()}
	}

	switch cfg.SentimentProvider {
	case "keyword":
		p.scorer = services.KeywordScorer{}
		p.status["sentiment"] = models.ProviderStatus{Name: "keyword"}
	case "none":
		p.status["sentiment"] = models.ProviderStatus{Name: "none"}
	default:
		scorer, err := services.NewLanguageScorer(ctx, cfg.GoogleCredentials)
		if err != nil {
			// Sentiment degrades to neutral instead of blocking startup.
			logging.GetLogger().WithError(err).Warn("Google Natural Language unavailable, sentiment will be neutral")
			p.status["sentiment"] = models.ProviderStatus{Name: "google"}
			break
		}
		p.closers = append(p.closers, func() {
			if err := scorer.Close(); err != nil {
				logging.GetLogger().WithError(err).Warn("Failed to close Language client")
			}
		})
		p.scorer = scorer
		p.status["sentiment"] = models.ProviderStatus{Name: "google"}
	}

	return p, nil
}
