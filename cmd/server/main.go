package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/StephanieNhiLe/savo-ai/internal/config"
	"github.com/StephanieNhiLe/savo-ai/internal/handlers"
	"github.com/StephanieNhiLe/savo-ai/internal/logging"
	"github.com/StephanieNhiLe/savo-ai/internal/router"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
	"github.com/StephanieNhiLe/savo-ai/internal/websocket"
)

func main() {
	log := logging.GetLogger()

	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("✗ Configuration invalid: %v", err)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	log.Info("🚀 Starting Savo AI backend...")
	log.Info("✓ Configuration loaded")

	ctx := context.Background()

	// ──── Step 2: Initialize Providers ────
	p, err := buildProviders(ctx, cfg)
	if err != nil {
		log.Fatalf("✗ Provider initialization failed: %v", err)
	}
	defer p.Close()

	// ──── Step 3: Initialize Services ────
	prompt, err := services.LoadPromptTemplate(cfg.PromptTemplateFile)
	if err != nil {
		log.Fatalf("✗ Prompt template: %v", err)
	}
	chatService := services.NewChatService(p.generator, prompt, cfg.UpstreamTimeout, cfg.UpstreamRetries)
	sentimentService := services.NewSentimentService(p.scorer, cfg.UpstreamTimeout)
	p.reportSentiment(sentimentService)
	for capability, status := range p.status {
		entry := log.WithField("provider", status.Name)
		if status.Configured {
			entry.Infof("✓ %s provider ready", capability)
		} else {
			entry.Warnf("⚠ %s provider not configured", capability)
		}
	}

	// ──── Step 4: Initialize Handlers ────
	homeHandler := handlers.NewHomeHandler(p.status)
	chatHandler := handlers.NewChatHandler(chatService)
	sentimentHandler := handlers.NewSentimentHandler(sentimentService)
	audioHandler := handlers.NewAudioHandler(p.synthesizer, cfg.DefaultVoiceID)
	audioSocket := websocket.NewAudioSocket(p.synthesizer, cfg.DefaultVoiceID, cfg.CORSAllowedOrigins)

	// ──── Step 5: Start HTTP Server ────
	r, stopRouter := router.New(
		homeHandler,
		chatHandler,
		sentimentHandler,
		audioHandler,
		audioSocket,
		router.Options{
			Logger:             log,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
	)
	defer stopRouter()

	// No WriteTimeout: audio responses stream for as long as the provider does.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down...")
		audioSocket.CloseAll()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
		close(idle)
	}()

	log.Infof("✓ Savo AI backend ready on http://localhost:%s", cfg.Port)
	log.Infof("  WS:  ws://localhost:%s/ws/stream_audio", cfg.Port)

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}
	<-idle
	log.Info("Server stopped")
}
