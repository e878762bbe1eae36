package transcription

import (
	"context"
	"strings"

	"github.com/obiente/translate/livetranslate/internal/audio"
	"github.com/obiente/translate/livetranslate/internal/language"
	"github.com/obiente/translate/livetranslate/internal/whisper"
)

// LocalWhisper runs an in-process whisper engine.
type LocalWhisper struct {
	engine whisper.Engine
}

func NewLocalWhisper(e whisper.Engine) *LocalWhisper { return &LocalWhisper{engine: e} }

func (l *LocalWhisper) Name() string { return "whisper-local" }
func (l *LocalWhisper) Close() error { return l.engine.Close() }

func (l *LocalWhisper) Recognize(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &ServiceError{Backend: l.Name(), Err: err}
	}
	samples, _, err := audio.DecodePCM16LEToFloat32(pcm, sampleRate)
	if err != nil {
		return "", err
	}
	samples = audio.ResampleLinear(samples, sampleRate, whisper.SampleRate)

	code := language.Base(lang)
	if code == "" {
		code = "auto"
	}
	text, _, err := l.engine.Transcribe(samples, code)
	if err != nil {
		return "", &ServiceError{Backend: l.Name(), Err: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}

// unavailable answers every call with the reason no backend could be initialised.
type unavailable struct {
	reason error
}

func (u unavailable) Name() string { return "unavailable" }
func (u unavailable) Close() error { return nil }

func (u unavailable) Recognize(context.Context, []byte, int, string) (string, error) {
	return "", &ServiceError{Backend: u.Name(), Err: u.reason}
}
