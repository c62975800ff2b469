package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/StephanieNhiLe/savo-ai/internal/handlers"
	"github.com/StephanieNhiLe/savo-ai/internal/middleware"
	"github.com/StephanieNhiLe/savo-ai/internal/websocket"
)

type Options struct {
	Logger             *logrus.Logger
	CORSAllowedOrigins []string
	// RateLimitPerMinute applies to the provider-backed routes; zero disables it.
	RateLimitPerMinute int
}

// New wires the HTTP surface. The returned stop function releases the rate
// limiter, if one was created.
func New(
	homeHandler *handlers.HomeHandler,
	chatHandler *handlers.ChatHandler,
	sentimentHandler *handlers.SentimentHandler,
	audioHandler *handlers.AudioHandler,
	audioSocket *websocket.AudioSocket,
	opts Options,
) (http.Handler, func()) {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	if opts.Logger != nil {
		r.Use(middleware.RequestLogger(opts.Logger))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(opts.CORSAllowedOrigins))

	stop := func() {}

	r.Get("/", homeHandler.Hello)
	r.Get("/health", homeHandler.Health)
	r.Post("/analyze_sentiment", sentimentHandler.Analyze)

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			limiter := middleware.NewRateLimiter(opts.RateLimitPerMinute, time.Minute)
			stop = limiter.Stop
			r.Use(limiter.Middleware)
		}
		r.Post("/chat", chatHandler.Chat)
		r.Post("/stream_audio", audioHandler.StreamAudio)
		r.Get("/ws/stream_audio", audioSocket.HandleWebSocket)
	})

	return r, stop
}
