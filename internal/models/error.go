package models

// ErrorResponse is the uniform error envelope for every endpoint.
type ErrorResponse struct {
	Error         string `json:"error"`
	QuotaExceeded bool   `json:"quota_exceeded,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}
