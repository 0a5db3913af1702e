package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration matches any *ConfigError.
	ErrConfiguration = errors.New("generation backend is not configured")

	// ErrOverloaded is returned once retries are exhausted on a transient failure.
	ErrOverloaded = errors.New("the AI model is temporarily overloaded, please try again in a moment")

	ErrEmptyResponse = errors.New("response was empty")
	ErrInvalidJSON   = errors.New("response was not valid JSON")
)

// ConfigError reports a required credential or setting that is missing.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration %s", e.Key)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// BackendError is a provider failure normalised across SDKs. StatusCode is 0
// when the provider did not expose one.
type BackendError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s backend returned status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s backend failed: %s", e.Provider, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

type overloadedError struct {
	last error
}

func (e *overloadedError) Error() string {
	return ErrOverloaded.Error()
}

func (e *overloadedError) Is(target error) bool {
	return target == ErrOverloaded
}

func (e *overloadedError) Unwrap() error {
	return e.last
}

// IsRetriable reports whether err is a transient capacity or rate-limit
// failure worth another attempt.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrConfiguration) {
		return false
	}

	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		if backendErr.StatusCode == 429 || (backendErr.StatusCode >= 500 && backendErr.StatusCode <= 599) {
			return true
		}
		return mentionsOverload(backendErr.Message)
	}

	return mentionsOverload(err.Error())
}

func mentionsOverload(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "overloaded")
}
