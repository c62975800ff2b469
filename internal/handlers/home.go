package handlers

import (
	"net/http"

	"github.com/StephanieNhiLe/savo-ai/internal/models"
)

type HomeHandler struct {
	providers map[string]models.ProviderStatus
}

// NewHomeHandler takes the provider selection made at startup, keyed by
// capability ("chat", "speech", "sentiment").
func NewHomeHandler(providers map[string]models.ProviderStatus) *HomeHandler {
	return &HomeHandler{providers: providers}
}

func (h *HomeHandler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello World!"})
}

func (h *HomeHandler) Health(w http.ResponseWriter, r *http.Request) {
	providers := h.providers
	if providers == nil {
		providers = map[string]models.ProviderStatus{}
	}
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Providers: providers,
	})
}
