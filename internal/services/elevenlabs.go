package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/StephanieNhiLe/savo-ai/internal/models"
)

const maxErrorBodyBytes = 64 << 10

// ElevenLabsConfig holds configuration for the ElevenLabs streaming TTS API.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	ModelID string

	// Voice settings
	Stability       float64
	SimilarityBoost float64

	ChunkSize int
	Timeout   time.Duration
	Retries   int
}

type elStreamRequest struct {
	Text          string          `json:"text"`
	ModelID       string          `json:"model_id"`
	VoiceSettings elVoiceSettings `json:"voice_settings"`
}

type elVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// ElevenLabsService implements SpeechSynthesizer over the ElevenLabs HTTP
// streaming endpoint.
type ElevenLabsService struct {
	config     ElevenLabsConfig
	httpClient *http.Client
}

func NewElevenLabsService(config ElevenLabsConfig) *ElevenLabsService {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.elevenlabs.io/v1/text-to-speech"
	}
	if config.ModelID == "" {
		config.ModelID = "eleven_monolingual_v1"
	}
	if config.Stability == 0 {
		config.Stability = 0.5
	}
	if config.SimilarityBoost == 0 {
		config.SimilarityBoost = 0.5
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1024
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &ElevenLabsService{
		config:     config,
		httpClient: newStreamingClient(config.Timeout),
	}
}

func (s *ElevenLabsService) Configured() bool { return s.config.APIKey != "" }

func (s *ElevenLabsService) SynthesizeStream(ctx context.Context, text, voiceID string) (*AudioStream, error) {
	if !s.Configured() {
		return nil, &UpstreamError{Provider: providerElevenLabs, Err: ErrNotConfigured}
	}

	payload, err := sonic.Marshal(elStreamRequest{
		Text:    text,
		ModelID: s.config.ModelID,
		VoiceSettings: elVoiceSettings{
			Stability:       s.config.Stability,
			SimilarityBoost: s.config.SimilarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	resp, err := withRetry(ctx, s.config.Retries, func(ctx context.Context) (*http.Response, error) {
		return s.open(ctx, voiceID, payload)
	})
	if err != nil {
		return nil, err
	}

	return NewAudioStream(resp.Body, s.config.ChunkSize), nil
}

// open issues one streaming request and returns the response only on success.
func (s *ElevenLabsService) open(ctx context.Context, voiceID string, payload []byte) (*http.Response, error) {
	endpoint := fmt.Sprintf("%s/%s/stream", strings.TrimRight(s.config.BaseURL, "/"), url.PathEscape(voiceID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build speech request: %w", err)
	}
	req.Header.Set("xi-api-key", s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", models.AudioContentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Provider: providerElevenLabs, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		body := strings.TrimSpace(string(raw))
		return nil, &UpstreamError{
			Provider:   providerElevenLabs,
			StatusCode: resp.StatusCode,
			Body:       body,
			Quota:      strings.Contains(body, quotaExceededMarker),
		}
	}
	return resp, nil
}
