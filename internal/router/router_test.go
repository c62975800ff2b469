package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/StephanieNhiLe/savo-ai/internal/handlers"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
	"github.com/StephanieNhiLe/savo-ai/internal/websocket"
)

type echoGenerator struct{}

func (echoGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "reply", nil
}

type silentSynthesizer struct{}

func (silentSynthesizer) SynthesizeStream(ctx context.Context, text, voiceID string) (*services.AudioStream, error) {
	return services.NewAudioStream(io.NopCloser(strings.NewReader("mp3")), 1024), nil
}

func newTestRouter(t *testing.T, rateLimit int) http.Handler {
	t.Helper()
	prompt, err := services.LoadPromptTemplate("")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}

	h, stop := New(
		handlers.NewHomeHandler(nil),
		handlers.NewChatHandler(services.NewChatService(echoGenerator{}, prompt, time.Second, 0)),
		handlers.NewSentimentHandler(services.NewSentimentService(nil, time.Second)),
		handlers.NewAudioHandler(silentSynthesizer{}, "voice"),
		websocket.NewAudioSocket(silentSynthesizer{}, "voice", []string{"*"}),
		Options{CORSAllowedOrigins: []string{"*"}, RateLimitPerMinute: rateLimit},
	)
	t.Cleanup(stop)
	return h
}

func TestRouter_Routes(t *testing.T) {
	h := newTestRouter(t, 0)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodPost, "/chat", `{"message":"hi"}`, http.StatusOK},
		{http.MethodPost, "/analyze_sentiment", `{"text":"hi"}`, http.StatusOK},
		{http.MethodPost, "/stream_audio", `{"text":"hi"}`, http.StatusOK},
		{http.MethodGet, "/chat", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			if rr.Code != tc.status {
				t.Errorf("Expected %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}
			if rr.Header().Get("X-Request-ID") == "" {
				t.Error("Expected X-Request-ID on every response")
			}
		})
	}
}

func TestRouter_RateLimitSkipsGreeting(t *testing.T) {
	h := newTestRouter(t, 1)

	send := func(method, path, body string) int {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.RemoteAddr = "192.0.2.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send(http.MethodPost, "/chat", `{"message":"hi"}`); code != http.StatusOK {
		t.Fatalf("Expected first chat allowed, got %d", code)
	}
	if code := send(http.MethodPost, "/stream_audio", `{"text":"hi"}`); code != http.StatusTooManyRequests {
		t.Fatalf("Expected provider route limited, got %d", code)
	}
	for i := 0; i < 3; i++ {
		if code := send(http.MethodGet, "/", ""); code != http.StatusOK {
			t.Fatalf("Greeting must not be rate limited, got %d", code)
		}
	}
}
