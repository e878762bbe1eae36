package transcription

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/obiente/translate/livetranslate/internal/audio"
	"github.com/obiente/translate/livetranslate/internal/language"
)

// WhisperAPI posts utterances to an OpenAI-compatible /audio/transcriptions endpoint.
type WhisperAPI struct {
	client *openai.Client
	model  string
}

// NewWhisperAPI creates a client for baseURL, e.g. "https://api.openai.com/v1" or a local whisper server.
func NewWhisperAPI(baseURL, apiKey, model string) *WhisperAPI {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	if model == "" {
		model = openai.Whisper1
	}
	return &WhisperAPI{client: openai.NewClientWithConfig(cfg), model: model}
}

func (w *WhisperAPI) Name() string { return "whisper-api" }
func (w *WhisperAPI) Close() error { return nil }

func (w *WhisperAPI) Recognize(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error) {
	f, err := os.CreateTemp("", "utterance-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp wav: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := audio.EncodeWAV(f, pcm, sampleRate); err != nil {
		return "", fmt.Errorf("encode wav: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind wav: %w", err)
	}

	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    w.model,
		FilePath: "utterance.wav",
		Reader:   f,
		Language: language.Base(lang),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", &ServiceError{Backend: w.Name(), Err: err}
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}
