package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/StephanieNhiLe/savo-ai/internal/logging"
)

const retryBaseDelay = 250 * time.Millisecond

// withRetry runs fn once plus up to retries more times while the failure is transient.
func withRetry[T any](ctx context.Context, retries int, fn func(context.Context) (T, error)) (T, error) {
	var (
		result T
		err    error
	)
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay * time.Duration(attempt)
			logging.GetLogger().WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"delay":   delay,
				"error":   err,
			}).Warn("retrying upstream call")

			select {
			case <-ctx.Done():
				return result, err
			case <-time.After(delay):
			}
		}

		result, err = fn(ctx)
		if err == nil || !isRetryable(err) {
			return result, err
		}
	}
	return result, err
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrNotConfigured) {
		return false
	}
	var ue *UpstreamError
	if !errors.As(err, &ue) || ue.Quota {
		return false
	}
	switch ue.StatusCode {
	case 0:
		return ue.Err != nil
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}
