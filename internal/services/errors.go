package services

import (
	"errors"
	"fmt"
	"strings"
)

const quotaExceededMarker = "quota_exceeded"

// ErrNotConfigured is returned by provider adapters whose credentials are missing.
var ErrNotConfigured = errors.New("provider is not configured")

// ValidationError reports a missing or malformed client input.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

// UpstreamError reports a provider call that failed or returned unusable data.
type UpstreamError struct {
	Provider   string
	StatusCode int // zero when no response was received
	Body       string
	Quota      bool
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s request failed: %s", e.Provider, e.Body)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsQuotaExceeded reports whether err signals provider quota exhaustion.
func IsQuotaExceeded(err error) bool {
	if err == nil {
		return false
	}
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Quota {
		return true
	}
	return strings.Contains(err.Error(), quotaExceededMarker)
}
