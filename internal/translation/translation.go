// Package translation turns source-language text into English through a remote model.
package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotConfiguredMessage is the stable text clients see when no translation credential is set.
const NotConfiguredMessage = "ERROR: translation API key is not set."

var (
	ErrNotConfigured     = errors.New(NotConfiguredMessage)
	ErrMalformedResponse = errors.New("translation could not be retrieved from the API response")
)

// ServiceError wraps a transport failure or non-2xx response.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string { return e.Provider + ": " + e.Err.Error() }
func (e *ServiceError) Unwrap() error { return e.Err }

// Provider performs one remote translation request.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, sourceName string) (string, error)
}

type Translator struct {
	provider Provider
	timeout  time.Duration
}

// New returns a Translator. A nil provider yields ErrNotConfigured on every non-empty call.
func New(p Provider, timeoutSec int) *Translator {
	if timeoutSec <= 0 {
		timeoutSec = 8
	}
	return &Translator{provider: p, timeout: time.Duration(timeoutSec) * time.Second}
}

// Provider returns the provider name, or "" when unconfigured.
func (t *Translator) Provider() string {
	if t == nil || t.provider == nil {
		return ""
	}
	return t.provider.Name()
}

// Translate returns the English rendering of text. Whitespace-only text returns "" without a request.
// There are no retries.
func (t *Translator) Translate(ctx context.Context, text, sourceName string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if t == nil || t.provider == nil {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.provider.Translate(ctx, text, sourceName)
	if err != nil {
		var se *ServiceError
		if errors.Is(err, ErrMalformedResponse) || errors.As(err, &se) {
			return "", err
		}
		return "", &ServiceError{Provider: t.provider.Name(), Err: err}
	}
	return strings.TrimSpace(out), nil
}

// Prompt is the instruction sent to text-generation providers.
func Prompt(text, sourceName string) string {
	return fmt.Sprintf("Translate the following text from %s to English: \"%s\"", sourceName, text)
}
