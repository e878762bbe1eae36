package whisper

import "errors"

// SampleRate is the only rate whisper models accept.
const SampleRate = 16000

// ErrUnavailable is returned by NewEngine when the binary was built without whisper.cpp.
var ErrUnavailable = errors.New("whisper.cpp support not built (rebuild with -tags whisper_cpp)")

// Engine is a small interface for whisper transcription.
// Implementations are a stub or backed by whisper.cpp (build tag: whisper_cpp).
type Engine interface {
	// Transcribe runs a full-context transcription over 16kHz PCM32F samples.
	// lang is an ISO-639-1 code or "auto". Returns (text, detectedLanguage).
	Transcribe(samples []float32, lang string) (string, string, error)
	Close() error
}
