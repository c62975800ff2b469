package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/StephanieNhiLe/savo-ai/internal/logging"
	"github.com/StephanieNhiLe/savo-ai/internal/middleware"
	"github.com/StephanieNhiLe/savo-ai/internal/models"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
)

type AudioHandler struct {
	synthesizer  services.SpeechSynthesizer
	defaultVoice string
}

func NewAudioHandler(synthesizer services.SpeechSynthesizer, defaultVoice string) *AudioHandler {
	return &AudioHandler{
		synthesizer:  synthesizer,
		defaultVoice: defaultVoice,
	}
}

// StreamAudio forwards synthesized speech to the client chunk by chunk as it
// arrives from the provider.
func (h *AudioHandler) StreamAudio(w http.ResponseWriter, r *http.Request) {
	var req models.AudioRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("No text provided", r))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		handleServiceError(w, r, &services.ValidationError{Message: "No text provided"})
		return
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = h.defaultVoice
	}

	log := logging.GetLogger().WithFields(logrus.Fields{
		"text":       logging.Truncate(req.Text, logging.MaxLoggedInput),
		"voice_id":   voiceID,
		"request_id": middleware.GetRequestID(r.Context()),
	})

	stream, err := h.synthesizer.SynthesizeStream(r.Context(), req.Text, voiceID)
	if err != nil {
		log.WithError(err).Error("Failed to open audio stream")
		handleQuotaAwareError(w, r, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", models.AudioContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	rc := http.NewResponseController(w)
	var written int64
	for chunk, err := range stream.Chunks() {
		if err != nil {
			// Headers are already sent; the client sees a truncated body.
			if errors.Is(err, context.Canceled) || r.Context().Err() != nil {
				log.WithError(err).WithField("bytes", written).Warn("Client went away during audio stream")
			} else {
				log.WithError(err).WithField("bytes", written).Error("Audio stream aborted")
			}
			return
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			log.WithError(err).WithField("bytes", written).Warn("Client went away during audio stream")
			return
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			log.WithError(err).Warn("Failed to flush audio chunk")
			return
		}
	}

	log.WithField("bytes", written).Info("Audio stream completed")
}
