// Package capture produces utterances for continuous listening. A Source opens one Capturer per
// listening cycle; the Capturer calibrates once against ambient noise and then segments incoming
// PCM16 frames into utterances by energy.
package capture

import (
	"context"
	"errors"
	"time"

	"github.com/obiente/translate/livetranslate/internal/audio"
	"github.com/obiente/translate/livetranslate/internal/config"
)

var (
	ErrClosed     = errors.New("capture closed")
	ErrBufferFull = errors.New("capture buffer full, frame dropped")
)

// Utterance is mono PCM16LE audio.
type Utterance struct {
	PCM        []byte
	SampleRate int
}

type Capturer interface {
	Calibrate(ctx context.Context, d time.Duration) error
	Listen(ctx context.Context) (Utterance, error)
	Close() error
}

type Source interface {
	Name() string
	Open(ctx context.Context) (Capturer, error)
}

// Feeder is implemented by capturers that receive audio from the client connection.
type Feeder interface {
	Feed(raw []byte, sampleRate, sampleWidth int) error
}

type Settings struct {
	SampleRate      int
	PauseThreshold  time.Duration
	PhraseTimeLimit time.Duration
	// MinEnergy is the RMS floor (int16 scale) below which a frame never counts as speech.
	MinEnergy float64
	// DynamicRatio scales the calibrated ambient RMS into the speech threshold.
	DynamicRatio float64
}

func SettingsFromConfig(cfg config.Config) Settings {
	return Settings{
		SampleRate:      cfg.CaptureSampleRate,
		PauseThreshold:  cfg.PauseThreshold,
		PhraseTimeLimit: cfg.PhraseTimeLimit,
		MinEnergy:       300,
		DynamicRatio:    1.5,
	}
}

func (s Settings) withDefaults() Settings {
	if s.SampleRate <= 0 {
		s.SampleRate = 16000
	}
	if s.PauseThreshold <= 0 {
		s.PauseThreshold = 800 * time.Millisecond
	}
	if s.PhraseTimeLimit <= 0 {
		s.PhraseTimeLimit = 10 * time.Second
	}
	if s.DynamicRatio <= 0 {
		s.DynamicRatio = 1.5
	}
	return s
}

// NewSource returns the source named by cfg.CaptureSource ("client" or "microphone").
func NewSource(cfg config.Config) Source {
	s := SettingsFromConfig(cfg)
	if cfg.CaptureSource == "microphone" {
		return MicrophoneSource{Settings: s}
	}
	return ClientSource{Settings: s}
}

// listener segments frames returned by read into utterances.
type listener struct {
	read      func(ctx context.Context) ([]byte, error)
	cfg       Settings
	threshold float64
}

func newListener(cfg Settings, read func(ctx context.Context) ([]byte, error)) *listener {
	cfg = cfg.withDefaults()
	return &listener{read: read, cfg: cfg, threshold: cfg.MinEnergy}
}

// Threshold reports the current speech energy threshold.
func (l *listener) Threshold() float64 { return l.threshold }

func (l *listener) Calibrate(ctx context.Context, d time.Duration) error {
	var (
		heard time.Duration
		sum   float64
		n     int
	)
	for heard < d {
		f, err := l.read(ctx)
		if err != nil {
			return err
		}
		sum += audio.RMS(f)
		n++
		heard += audio.Duration(f, l.cfg.SampleRate)
	}
	if n > 0 {
		l.threshold = max(l.cfg.MinEnergy, sum/float64(n)*l.cfg.DynamicRatio)
	}
	return nil
}

func (l *listener) Listen(ctx context.Context) (Utterance, error) {
	var (
		buf     []byte
		length  time.Duration
		silence time.Duration
		started bool
	)
	for {
		f, err := l.read(ctx)
		if err != nil {
			return Utterance{}, err
		}
		d := audio.Duration(f, l.cfg.SampleRate)
		if audio.RMS(f) >= l.threshold {
			started = true
			silence = 0
		} else if started {
			silence += d
		}
		if !started {
			continue
		}
		buf = append(buf, f...)
		length += d
		if silence >= l.cfg.PauseThreshold || length >= l.cfg.PhraseTimeLimit {
			return Utterance{PCM: buf, SampleRate: l.cfg.SampleRate}, nil
		}
	}
}
