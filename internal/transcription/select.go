package transcription

import (
	"context"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/obiente/translate/livetranslate/internal/config"
	"github.com/obiente/translate/livetranslate/internal/whisper"
)

// Select picks the process-wide backend once: Google Cloud Speech when credentials are configured,
// otherwise an OpenAI-compatible Whisper API, otherwise local whisper.cpp.
func Select(ctx context.Context, cfg config.Config) Backend {
	if cfg.GoogleCredentialsPath != "" {
		g, err := NewGoogleSpeech(ctx, option.WithCredentialsFile(cfg.GoogleCredentialsPath))
		if err == nil {
			log.Info().Str("backend", g.Name()).Msg("transcription: using Google Cloud Speech-to-Text")
			return g
		}
		log.Warn().Err(err).Msg("transcription: google speech client failed, falling back")
	} else {
		log.Warn().Msg("transcription: GOOGLE_APPLICATION_CREDENTIALS not set, falling back to a less accurate speech backend")
	}

	if cfg.WhisperAPIURL != "" {
		w := NewWhisperAPI(cfg.WhisperAPIURL, cfg.WhisperAPIKey, cfg.WhisperAPIModel)
		log.Info().Str("backend", w.Name()).Str("url", cfg.WhisperAPIURL).Msg("transcription: using whisper api")
		return w
	}

	eng, err := whisper.NewEngine(cfg.WhisperModelPath)
	if err != nil {
		log.Error().Err(err).Str("model", cfg.WhisperModelPath).Msg("transcription: no speech backend available")
		return unavailable{reason: err}
	}
	log.Info().Str("model", cfg.WhisperModelPath).Msg("transcription: using local whisper")
	return NewLocalWhisper(eng)
}
