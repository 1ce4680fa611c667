package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// transientMessageFragments are substrings of provider error messages that
// indicate a retryable condition even when no HTTP status is attached.
var transientMessageFragments = []string{
	"rate limit",
	"quota exceeded",
	"resource exhausted",
	"temporarily unavailable",
	"service unavailable",
	"model is overloaded",
	"deadline exceeded",
	"connection reset",
	"timeout",
	"try again",
}

// IsTransient reports whether a generation-call error is retryable:
// rate limits, server-side 5xx responses, timeouts, and known transient
// provider messages. Everything else is treated as permanent and aborts
// the run.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusRequestTimeout,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range transientMessageFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}
