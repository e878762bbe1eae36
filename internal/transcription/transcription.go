// Package transcription turns one utterance of linear PCM audio into source-language text.
//
// A process selects exactly one Backend at startup (see Select); the Adapter validates framing,
// normalises audio to mono PCM16LE and classifies backend failures.
package transcription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/obiente/translate/livetranslate/internal/audio"
)

var (
	// ErrUnintelligible means the backend heard no speech (music, silence, noise).
	ErrUnintelligible = errors.New("speech could not be understood")
	// ErrFormat means the audio framing is malformed.
	ErrFormat = errors.New("invalid audio format")
)

// ServiceError wraps a network or backend failure.
type ServiceError struct {
	Backend string
	Err     error
}

func (e *ServiceError) Error() string { return e.Backend + ": " + e.Err.Error() }
func (e *ServiceError) Unwrap() error { return e.Err }

// Request is one utterance. SampleWidth is bytes per sample; WAV blobs carry their own framing.
type Request struct {
	Audio       []byte
	SampleRate  int
	SampleWidth int
	Language    string
}

// Backend recognises mono PCM16LE audio.
type Backend interface {
	Name() string
	Recognize(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error)
	Close() error
}

type Adapter struct {
	backend Backend
	timeout time.Duration
}

func NewAdapter(b Backend, timeoutSec int) *Adapter {
	if timeoutSec <= 0 {
		timeoutSec = 30
	}
	return &Adapter{backend: b, timeout: time.Duration(timeoutSec) * time.Second}
}

// Backend returns the selected backend's name.
func (a *Adapter) Backend() string { return a.backend.Name() }

func (a *Adapter) Close() error { return a.backend.Close() }

// Transcribe returns the recognised text, ErrUnintelligible, an ErrFormat-wrapped error or a *ServiceError.
func (a *Adapter) Transcribe(ctx context.Context, req Request) (string, error) {
	pcm, rate, err := normalize(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFormat, err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.backend.Recognize(ctx, pcm, rate, req.Language)
	if err != nil {
		var se *ServiceError
		if errors.Is(err, ErrUnintelligible) || errors.As(err, &se) {
			return "", err
		}
		return "", &ServiceError{Backend: a.backend.Name(), Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

func normalize(req Request) ([]byte, int, error) {
	if len(req.Audio) == 0 {
		return nil, 0, audio.ErrEmpty
	}
	if audio.IsWAV(req.Audio) {
		return audio.DecodeWAV(req.Audio)
	}
	if req.SampleRate <= 0 {
		return nil, 0, audio.ErrSampleRate
	}
	pcm, err := audio.ToPCM16(req.Audio, req.SampleWidth)
	if err != nil {
		return nil, 0, err
	}
	return pcm, req.SampleRate, nil
}
