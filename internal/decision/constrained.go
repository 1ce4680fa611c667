package decision

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/requirement-resolver/internal/llm"
)

// Sentinel errors returned when the attempt budget exhausts.
var (
	// ErrAttemptsExhausted means every attempt produced an invalid
	// response and the repair budget ran out.
	ErrAttemptsExhausted = errors.New("generation attempts exhausted")
	// ErrTransientService means the budget exhausted on retryable service
	// failures rather than invalid responses. Callers surface this as a
	// temporary issue with a retry affordance.
	ErrTransientService = errors.New("generation service temporarily unavailable")
)

// RepairError is a recoverable validation failure. Diagnostic is fed back
// to the model verbatim in the repair prompt.
type RepairError struct {
	Diagnostic string
}

func (e *RepairError) Error() string {
	return e.Diagnostic
}

// Repairable builds a RepairError with a formatted diagnostic.
func Repairable(format string, args ...any) error {
	return &RepairError{Diagnostic: fmt.Sprintf(format, args...)}
}

// GenerateFunc issues one structured-generation attempt for a prompt.
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

// Validator interprets a raw response, returning either the final value or
// an error. A *RepairError triggers a repair attempt; any other error
// aborts immediately.
type Validator[T any] func(raw string) (T, error)

// RepairPromptFunc builds the follow-up prompt after a rejected attempt
// from the diagnostic and the previous raw response.
type RepairPromptFunc func(diagnostic, previous string) string

// GenerateConstrained runs a structured-generation call with bounded
// repair: generate, validate, and on a repairable failure re-prompt with
// the diagnostic, up to maxAttempts total attempts. Transient service
// failures consume attempts from the same budget.
//
// On exhaustion it returns ErrTransientService when the final failure was
// a service error, ErrAttemptsExhausted otherwise. Permanent service
// failures and non-repairable validation errors are returned immediately.
func GenerateConstrained[T any](
	ctx context.Context,
	gen GenerateFunc,
	basePrompt string,
	repairPrompt RepairPromptFunc,
	maxAttempts int,
	validate Validator[T],
) (T, error) {
	var zero T
	prompt := basePrompt
	lastTransient := false

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		raw, err := gen(ctx, prompt)
		if err != nil {
			if llm.IsTransient(err) {
				lastTransient = true
				continue
			}
			return zero, fmt.Errorf("generation attempt %d failed: %w", attempt, err)
		}

		value, err := validate(raw)
		if err == nil {
			return value, nil
		}

		var repair *RepairError
		if !errors.As(err, &repair) {
			return zero, err
		}

		lastTransient = false
		prompt = basePrompt + "\n\n" + repairPrompt(repair.Diagnostic, raw)
	}

	if lastTransient {
		return zero, ErrTransientService
	}
	return zero, ErrAttemptsExhausted
}
