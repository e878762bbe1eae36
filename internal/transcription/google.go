package transcription

import (
	"context"
	"encoding/base64"
	"strings"

	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
)

// GoogleSpeech is the credentialed Google Cloud Speech-to-Text backend.
type GoogleSpeech struct {
	svc *speech.Service
}

func NewGoogleSpeech(ctx context.Context, opts ...option.ClientOption) (*GoogleSpeech, error) {
	svc, err := speech.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSpeech{svc: svc}, nil
}

func (g *GoogleSpeech) Name() string { return "google-speech" }
func (g *GoogleSpeech) Close() error { return nil }

func (g *GoogleSpeech) Recognize(ctx context.Context, pcm []byte, sampleRate int, lang string) (string, error) {
	req := &speech.RecognizeRequest{
		Config: &speech.RecognitionConfig{
			Encoding:                   "LINEAR16",
			SampleRateHertz:            int64(sampleRate),
			LanguageCode:               lang,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speech.RecognitionAudio{
			Content: base64.StdEncoding.EncodeToString(pcm),
		},
	}
	resp, err := g.svc.Speech.Recognize(req).Context(ctx).Do()
	if err != nil {
		return "", &ServiceError{Backend: g.Name(), Err: err}
	}

	var parts []string
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 {
			continue
		}
		if t := strings.TrimSpace(r.Alternatives[0].Transcript); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", ErrUnintelligible
	}
	return strings.Join(parts, " "), nil
}
