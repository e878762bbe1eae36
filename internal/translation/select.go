package translation

import (
	"context"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/obiente/translate/livetranslate/internal/config"
)

// FromConfig builds the process-wide Translator. Missing credentials are not fatal: the
// Translator then answers every call with ErrNotConfigured.
func FromConfig(ctx context.Context, cfg config.Config) *Translator {
	var p Provider
	switch cfg.TranslationProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey != "" {
			p = NewAnthropic(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		}
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			p = NewOpenAI(cfg.OpenAIAPIKey, cfg.TranslationBaseURL, cfg.OpenAIModel)
		}
	case "libretranslate":
		if cfg.TranslationBaseURL != "" {
			p = NewLibreTranslate(cfg.TranslationBaseURL)
		}
	default:
		if cfg.GeminiAPIKey != "" {
			g, err := NewGemini(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey}, cfg.GeminiModel)
			if err != nil {
				log.Error().Err(err).Msg("translation: gemini client failed")
			} else {
				p = g
			}
		}
	}

	if p == nil {
		log.Warn().Str("provider", cfg.TranslationProvider).Msg("translation: credential not set, translations will report an error")
	} else {
		log.Info().Str("provider", p.Name()).Msg("translation: provider ready")
	}
	return New(p, cfg.TranslationTimeoutSec)
}
