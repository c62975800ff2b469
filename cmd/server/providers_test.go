package main

import (
	"context"
	"testing"
	"time"

	"github.com/StephanieNhiLe/savo-ai/internal/config"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
)

func TestBuildProviders_UnconfiguredStillStarts(t *testing.T) {
	cfg := &config.Config{
		ChatProvider:         "gemini",
		GeminiModel:          "gemini-1.5-flash",
		GeminiConcurrentReqs: 1,
		SpeechProvider:       "elevenlabs",
		SentimentProvider:    "google",
		AudioChunkSize:       1024,
		UpstreamTimeout:      time.Second,
	}

	p, err := buildProviders(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildProviders: %v", err)
	}
	defer p.Close()

	if p.scorer != nil {
		t.Error("Expected no sentiment scorer without credentials")
	}
	for _, capability := range []string{"chat", "speech", "sentiment"} {
		if p.status[capability].Configured {
			t.Errorf("Expected %s reported unconfigured", capability)
		}
	}
}

func TestBuildProviders_Selection(t *testing.T) {
	cfg := &config.Config{
		ChatProvider:      "openai",
		SpeechProvider:    "openai",
		SentimentProvider: "keyword",
		OpenAIAPIKey:      "sk-test",
		AudioChunkSize:    1024,
		UpstreamTimeout:   time.Second,
	}

	p, err := buildProviders(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildProviders: %v", err)
	}
	defer p.Close()

	if _, ok := p.generator.(*services.OpenAIService); !ok {
		t.Errorf("Expected OpenAI generator, got %T", p.generator)
	}
	if _, ok := p.synthesizer.(*services.OpenAIService); !ok {
		t.Errorf("Expected OpenAI synthesizer, got %T", p.synthesizer)
	}
	if _, ok := p.scorer.(services.KeywordScorer); !ok {
		t.Errorf("Expected keyword scorer, got %T", p.scorer)
	}
	if !p.status["chat"].Configured || p.status["chat"].Name != "openai" {
		t.Errorf("Unexpected chat status %+v", p.status["chat"])
	}
}

func TestReportSentiment(t *testing.T) {
	for _, provider := range []string{"keyword", "none"} {
		cfg := &config.Config{
			ChatProvider:      "openai",
			SpeechProvider:    "openai",
			SentimentProvider: provider,
			AudioChunkSize:    1024,
			UpstreamTimeout:   time.Second,
		}
		p, err := buildProviders(context.Background(), cfg)
		if err != nil {
			t.Fatalf("buildProviders: %v", err)
		}

		p.reportSentiment(services.NewSentimentService(p.scorer, time.Second))

		want := provider == "keyword"
		if got := p.status["sentiment"]; got.Configured != want || got.Name != provider {
			t.Errorf("%s: unexpected sentiment status %+v", provider, got)
		}
		p.Close()
	}
}
