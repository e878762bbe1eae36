package orchestrator

import (
	"errors"

	"github.com/obiente/translate/livetranslate/internal/transcription"
	"github.com/obiente/translate/livetranslate/internal/translation"
)

// describe turns an adapter error into the status text shown to the client.
func describe(err error) string {
	var (
		sttErr *transcription.ServiceError
		trErr  *translation.ServiceError
	)
	switch {
	case errors.Is(err, transcription.ErrUnintelligible):
		return "Could not understand audio. Please try again."
	case errors.Is(err, transcription.ErrFormat):
		return "Error processing audio format: " + err.Error()
	case errors.As(err, &sttErr):
		return "API Error: " + sttErr.Error()
	case errors.Is(err, translation.ErrNotConfigured):
		return translation.NotConfiguredMessage
	case errors.Is(err, translation.ErrMalformedResponse):
		return "Translation could not be retrieved from the API response."
	case errors.As(err, &trErr):
		return "Failed to connect to the translation service: " + trErr.Error()
	default:
		return "An unexpected error occurred: " + err.Error()
	}
}

// recoverable reports whether a continuous-listening worker keeps going after err.
func recoverable(err error) bool {
	var (
		sttErr *transcription.ServiceError
		trErr  *translation.ServiceError
	)
	return errors.Is(err, transcription.ErrUnintelligible) ||
		errors.Is(err, transcription.ErrFormat) ||
		errors.As(err, &sttErr) ||
		errors.Is(err, translation.ErrNotConfigured) ||
		errors.Is(err, translation.ErrMalformedResponse) ||
		errors.As(err, &trErr)
}
