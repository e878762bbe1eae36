package transcription

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/obiente/translate/livetranslate/internal/audio"
	"github.com/obiente/translate/livetranslate/internal/config"
)

type fakeBackend struct {
	text  string
	err   error
	calls int

	gotPCM  []byte
	gotRate int
	gotLang string
}

func (f *fakeBackend) Name() string { return "fake" }
func (f *fakeBackend) Close() error { return nil }

func (f *fakeBackend) Recognize(_ context.Context, pcm []byte, rate int, lang string) (string, error) {
	f.calls++
	f.gotPCM, f.gotRate, f.gotLang = pcm, rate, lang
	return f.text, f.err
}

func TestAdapterTranscribe(t *testing.T) {
	fb := &fakeBackend{text: "  Hola  "}
	a := NewAdapter(fb, 5)

	got, err := a.Transcribe(context.Background(), Request{
		Audio:       []byte{1, 0, 2, 0},
		SampleRate:  16000,
		SampleWidth: 2,
		Language:    "es-ES",
	})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "Hola" {
		t.Errorf("text = %q, want %q", got, "Hola")
	}
	if fb.gotRate != 16000 || fb.gotLang != "es-ES" {
		t.Errorf("backend got rate=%d lang=%q", fb.gotRate, fb.gotLang)
	}
}

func TestAdapterConvertsSampleWidth(t *testing.T) {
	fb := &fakeBackend{text: "ok"}
	a := NewAdapter(fb, 5)
	// 8-bit unsigned silence becomes PCM16 zeros
	if _, err := a.Transcribe(context.Background(), Request{Audio: []byte{128, 128}, SampleRate: 8000, SampleWidth: 1}); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if string(fb.gotPCM) != string([]byte{0, 0, 0, 0}) {
		t.Errorf("pcm = %v, want four zero bytes", fb.gotPCM)
	}
}

func TestAdapterFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"empty audio", Request{SampleRate: 16000, SampleWidth: 2}},
		{"zero rate", Request{Audio: []byte{0, 0}, SampleWidth: 2}},
		{"bad width", Request{Audio: []byte{0, 0}, SampleRate: 16000, SampleWidth: 7}},
		{"ragged frames", Request{Audio: []byte{0, 0, 0}, SampleRate: 16000, SampleWidth: 2}},
		{"broken wav", Request{Audio: []byte("RIFF\x00\x00\x00\x00WAVEjunk"), SampleRate: 16000, SampleWidth: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{text: "never"}
			_, err := NewAdapter(fb, 5).Transcribe(context.Background(), tt.req)
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("err = %v, want ErrFormat", err)
			}
			if fb.calls != 0 {
				t.Errorf("backend called %d times, want 0", fb.calls)
			}
		})
	}
}

func TestAdapterClassifiesBackendErrors(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name      string
		backend   *fakeBackend
		wantUnint bool
	}{
		{"empty text", &fakeBackend{text: "   "}, true},
		{"unintelligible", &fakeBackend{err: ErrUnintelligible}, true},
		{"plain error", &fakeBackend{err: boom}, false},
		{"service error", &fakeBackend{err: &ServiceError{Backend: "x", Err: boom}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAdapter(tt.backend, 5).Transcribe(context.Background(), Request{Audio: []byte{0, 0}, SampleRate: 16000, SampleWidth: 2})
			if tt.wantUnint {
				if !errors.Is(err, ErrUnintelligible) {
					t.Fatalf("err = %v, want ErrUnintelligible", err)
				}
				return
			}
			var se *ServiceError
			if !errors.As(err, &se) {
				t.Fatalf("err = %v, want *ServiceError", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("err = %v does not wrap cause", err)
			}
		})
	}
}

func TestAdapterAcceptsWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	pcm := make([]byte, 8)
	binary.LittleEndian.PutUint16(pcm[2:], 500)
	if err := audio.EncodeWAV(f, pcm, 44100); err != nil {
		t.Fatal(err)
	}
	f.Close()
	blob, _ := os.ReadFile(path)

	fb := &fakeBackend{text: "wav"}
	if _, err := NewAdapter(fb, 5).Transcribe(context.Background(), Request{Audio: blob, SampleRate: 16000, SampleWidth: 2}); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if fb.gotRate != 44100 {
		t.Errorf("rate = %d, want header rate 44100", fb.gotRate)
	}
	if string(fb.gotPCM) != string(pcm) {
		t.Errorf("pcm = %v, want %v", fb.gotPCM, pcm)
	}
}

func TestSelectWithoutCredentials(t *testing.T) {
	t.Run("whisper api", func(t *testing.T) {
		b := Select(context.Background(), config.Config{WhisperAPIURL: "http://127.0.0.1:1/v1"})
		if b.Name() != "whisper-api" {
			t.Errorf("backend = %q, want whisper-api", b.Name())
		}
	})
	t.Run("nothing configured", func(t *testing.T) {
		b := Select(context.Background(), config.Config{WhisperModelPath: filepath.Join(t.TempDir(), "missing.bin")})
		_, err := b.Recognize(context.Background(), []byte{0, 0}, 16000, "en-US")
		var se *ServiceError
		if !errors.As(err, &se) {
			t.Fatalf("err = %v, want *ServiceError from %q", err, b.Name())
		}
	})
}
