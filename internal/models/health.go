package models

// ProviderStatus describes the adapter selected for one capability.
type ProviderStatus struct {
	Name       string `json:"name"`
	Configured bool   `json:"configured"`
}

type HealthResponse struct {
	Status    string                    `json:"status"`
	Providers map[string]ProviderStatus `json:"providers"`
}
