package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/StephanieNhiLe/savo-ai/internal/logging"
	"github.com/StephanieNhiLe/savo-ai/internal/middleware"
	"github.com/StephanieNhiLe/savo-ai/internal/models"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
)

type chatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

type ChatHandler struct {
	chatService chatService
}

func NewChatHandler(chatService chatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("Invalid request body", r))
		return
	}

	text, err := h.chatService.Reply(r.Context(), req.Message)
	if err != nil {
		var validationErr *services.ValidationError
		if !errors.As(err, &validationErr) {
			logging.GetLogger().WithFields(logrus.Fields{
				"message":    logging.Truncate(req.Message, logging.MaxLoggedInput),
				"request_id": middleware.GetRequestID(r.Context()),
			}).WithError(err).Error("Chat generation failed")
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Text: text})
}
