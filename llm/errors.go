package llm

import (
	"errors"
	"fmt"
)

// ProviderError represents a failure reported by a chat-completion provider.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Retryable  bool
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("[%s] %s (status=%d, retryable=%v)", e.Provider, e.Message, e.StatusCode, e.Retryable)
	}
	return fmt.Sprintf("[%s] %s (retryable=%v)", e.Provider, e.Message, e.Retryable)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether err is a provider error safe to retry.
// Non-provider errors are conservatively treated as not retryable.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// retryableStatus classifies an HTTP status code from a provider.
func retryableStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
