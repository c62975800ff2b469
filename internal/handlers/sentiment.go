package handlers

import (
	"context"
	"net/http"

	"github.com/StephanieNhiLe/savo-ai/internal/models"
)

type sentimentService interface {
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
}

type SentimentHandler struct {
	sentimentService sentimentService
}

func NewSentimentHandler(sentimentService sentimentService) *SentimentHandler {
	return &SentimentHandler{sentimentService: sentimentService}
}

// Analyze only fails on bad input; provider failures come back as neutral.
func (h *SentimentHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.SentimentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("No text provided", r))
		return
	}

	result, err := h.sentimentService.Analyze(r.Context(), req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
