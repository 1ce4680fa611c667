// Package server provides the HTTP REST API for the requirement resolver.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/requirement-resolver/internal/engine"
)

// ErrRunNotFound indicates the requested run does not exist.
type ErrRunNotFound struct {
	RunID uuid.UUID
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.RunID)
}

// ErrValidation indicates request validation failure.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrHistoryDisabled indicates run history was requested but no database
// is configured.
type ErrHistoryDisabled struct{}

func (e *ErrHistoryDisabled) Error() string {
	return "run history is not enabled on this server"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var invalid *engine.InvalidInputError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}

	var (
		notFound   *ErrRunNotFound
		validation *ErrValidation
		disabled   *ErrHistoryDisabled
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &disabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
