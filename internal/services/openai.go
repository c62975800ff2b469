package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const openAIInsufficientQuota = "insufficient_quota"

// OpenAIConfig holds configuration for the OpenAI chat and speech adapters.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	TTSModel  string
	ChunkSize int
	Timeout   time.Duration
	Retries   int
}

// OpenAIService implements both TextGenerator and SpeechSynthesizer.
type OpenAIService struct {
	config OpenAIConfig
	client *openai.Client
}

func NewOpenAIService(config OpenAIConfig) *OpenAIService {
	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.TTSModel == "" {
		config.TTSModel = string(openai.TTSModel1)
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = 1024
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = newStreamingClient(config.Timeout)

	return &OpenAIService{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (s *OpenAIService) Configured() bool { return s.config.APIKey != "" }

func (s *OpenAIService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !s.Configured() {
		return "", &UpstreamError{Provider: providerOpenAI, Err: ErrNotConfigured}
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", openAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Provider: providerOpenAI, Body: "no candidates returned"}
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &UpstreamError{Provider: providerOpenAI, Body: "no candidates returned"}
	}
	return text, nil
}

func (s *OpenAIService) SynthesizeStream(ctx context.Context, text, voiceID string) (*AudioStream, error) {
	if !s.Configured() {
		return nil, &UpstreamError{Provider: providerOpenAI, Err: ErrNotConfigured}
	}

	raw, err := withRetry(ctx, s.config.Retries, func(ctx context.Context) (openai.RawResponse, error) {
		resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          openai.SpeechModel(s.config.TTSModel),
			Input:          text,
			Voice:          openAIVoice(voiceID),
			ResponseFormat: openai.SpeechResponseFormatMp3,
		})
		if err != nil {
			return resp, openAIError(err)
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return NewAudioStream(raw, s.config.ChunkSize), nil
}

// openAIVoice maps a requested voice onto an OpenAI voice; ids from other
// providers fall back to alloy.
func openAIVoice(voiceID string) openai.SpeechVoice {
	switch v := openai.SpeechVoice(strings.ToLower(voiceID)); v {
	case openai.VoiceAlloy, openai.VoiceEcho, openai.VoiceFable,
		openai.VoiceOnyx, openai.VoiceNova, openai.VoiceShimmer:
		return v
	}
	return openai.VoiceAlloy
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		return &UpstreamError{
			Provider:   providerOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Body:       apiErr.Message,
			Quota:      code == openAIInsufficientQuota || apiErr.Type == openAIInsufficientQuota,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{
			Provider:   providerOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Body:       reqErr.Error(),
			Err:        err,
		}
	}
	return &UpstreamError{Provider: providerOpenAI, Err: err}
}
