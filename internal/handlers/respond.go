package handlers

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/StephanieNhiLe/savo-ai/internal/logging"
	"github.com/StephanieNhiLe/savo-ai/internal/middleware"
	"github.com/StephanieNhiLe/savo-ai/internal/models"
	"github.com/StephanieNhiLe/savo-ai/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(data); err != nil {
		logging.GetLogger().WithError(err).Error("Failed to encode response")
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return sonic.ConfigStd.NewDecoder(r.Body).Decode(dst)
}

func errorResp(message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error:     message,
		RequestID: middleware.GetRequestID(r.Context()),
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResp(validationErr.Message, r))
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResp(err.Error(), r))
}

// handleQuotaAwareError reports provider quota exhaustion as 429 and falls
// back to handleServiceError for everything else.
func handleQuotaAwareError(w http.ResponseWriter, r *http.Request, err error) {
	if !services.IsQuotaExceeded(err) {
		handleServiceError(w, r, err)
		return
	}
	resp := errorResp(err.Error(), r)
	resp.QuotaExceeded = true
	writeJSON(w, http.StatusTooManyRequests, resp)
}
