package genai

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrConfiguration is returned by New when required settings are missing.
	ErrConfiguration = errors.New("genai: configuration error")
	// ErrBackendUnavailable is returned by New when the liveness probe fails.
	ErrBackendUnavailable = errors.New("genai: backend unavailable")
)

// Failure reasons attached to a GenerationError.
const (
	ReasonInvalidAPIKey = "invalid_api_key"
	ReasonQuota         = "quota"
	ReasonEmptyResponse = "empty_response"
	ReasonCanceled      = "canceled"
	ReasonProvider      = "provider"
)

var errEmptyResponse = errors.New("no text returned by model")

// GenerationError is a single failed call to the provider. Error returns the
// provider message so it reads naturally when embedded in response text.
type GenerationError struct {
	Provider string
	Reason   string
	Err      error
}

func newGenerationError(provider string, err error) *GenerationError {
	return &GenerationError{Provider: provider, Reason: classify(err), Err: err}
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Hint returns a troubleshooting line for reasons that have one.
func (e *GenerationError) Hint() string {
	switch e.Reason {
	case ReasonInvalidAPIKey:
		return "check that the API key is valid, unrestricted for this API, and that billing is enabled"
	case ReasonQuota:
		return "check billing status and the API quota for the project"
	case ReasonCanceled:
		return "the request was canceled or timed out before the provider answered"
	}
	return ""
}

func classify(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}
	if errors.Is(err, errEmptyResponse) {
		return ReasonEmptyResponse
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api_key_invalid"),
		strings.Contains(msg, "api key not valid"),
		strings.Contains(msg, "invalid api key"),
		strings.Contains(msg, "incorrect api key"),
		strings.Contains(msg, "unauthenticated"):
		return ReasonInvalidAPIKey
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "rate limit"):
		return ReasonQuota
	}
	return ReasonProvider
}
