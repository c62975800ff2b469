package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultVoiceID is the voice used when a request does not name one.
const DefaultVoiceID = "EXAVITQu4vr4xnSDxMaL"

type Config struct {
	// Server
	Port string
	Env  string

	// Logging
	LogLevel  string
	LogFormat string

	// Chat
	ChatProvider       string
	PromptTemplateFile string

	// Gemini AI
	GeminiAPIKey         string
	GeminiModel          string
	GeminiConcurrentReqs int

	// OpenAI
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OpenAIModel    string
	OpenAITTSModel string

	// Speech
	SpeechProvider    string
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	ElevenLabsModelID string
	DefaultVoiceID    string
	AudioChunkSize    int

	// Sentiment
	SentimentProvider string
	GoogleCredentials string

	// Upstream calls
	UpstreamTimeout time.Duration
	UpstreamRetries int

	// HTTP surface
	CORSAllowedOrigins []string
	RateLimitPerMinute int
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := getEnvOrDefault("CONFIG_FILE", ""); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:      v.GetString("PORT"),
		Env:       v.GetString("ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		ChatProvider:       strings.ToLower(v.GetString("CHAT_PROVIDER")),
		PromptTemplateFile: v.GetString("PROMPT_TEMPLATE_FILE"),

		GeminiAPIKey:         v.GetString("GEMINI_API_KEY"),
		GeminiModel:          v.GetString("GEMINI_MODEL"),
		GeminiConcurrentReqs: v.GetInt("GEMINI_CONCURRENT_REQUESTS"),

		OpenAIAPIKey:   v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL:  v.GetString("OPENAI_BASE_URL"),
		OpenAIModel:    v.GetString("OPENAI_MODEL"),
		OpenAITTSModel: v.GetString("OPENAI_TTS_MODEL"),

		SpeechProvider:    strings.ToLower(v.GetString("SPEECH_PROVIDER")),
		ElevenLabsAPIKey:  v.GetString("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL: v.GetString("ELEVENLABS_BASE_URL"),
		ElevenLabsModelID: v.GetString("ELEVENLABS_MODEL_ID"),
		DefaultVoiceID:    v.GetString("DEFAULT_VOICE_ID"),
		AudioChunkSize:    v.GetInt("AUDIO_CHUNK_SIZE"),

		SentimentProvider: strings.ToLower(v.GetString("SENTIMENT_PROVIDER")),
		GoogleCredentials: v.GetString("GOOGLE_APPLICATION_CREDENTIALS"),

		UpstreamTimeout: v.GetDuration("UPSTREAM_TIMEOUT"),
		UpstreamRetries: v.GetInt("UPSTREAM_RETRIES"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("CHAT_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_CONCURRENT_REQUESTS", 5)
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_TTS_MODEL", "tts-1")
	v.SetDefault("SPEECH_PROVIDER", "elevenlabs")
	v.SetDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io/v1/text-to-speech")
	v.SetDefault("ELEVENLABS_MODEL_ID", "eleven_monolingual_v1")
	v.SetDefault("DEFAULT_VOICE_ID", DefaultVoiceID)
	v.SetDefault("AUDIO_CHUNK_SIZE", 1024)
	v.SetDefault("SENTIMENT_PROVIDER", "google")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("UPSTREAM_RETRIES", 1)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 0)
}

func (c *Config) validate() error {
	switch c.ChatProvider {
	case "gemini", "openai":
	default:
		return fmt.Errorf("unsupported CHAT_PROVIDER %q", c.ChatProvider)
	}
	switch c.SpeechProvider {
	case "elevenlabs", "openai":
	default:
		return fmt.Errorf("unsupported SPEECH_PROVIDER %q", c.SpeechProvider)
	}
	switch c.SentimentProvider {
	case "google", "keyword", "none":
	default:
		return fmt.Errorf("unsupported SENTIMENT_PROVIDER %q", c.SentimentProvider)
	}
	if c.AudioChunkSize <= 0 {
		return fmt.Errorf("AUDIO_CHUNK_SIZE must be positive, got %d", c.AudioChunkSize)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive, got %s", c.UpstreamTimeout)
	}
	if c.UpstreamRetries < 0 {
		c.UpstreamRetries = 0
	}
	if c.GeminiConcurrentReqs <= 0 {
		c.GeminiConcurrentReqs = 1
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}
