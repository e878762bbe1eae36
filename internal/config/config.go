package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CaptureMode selects how audio reaches the orchestrator.
type CaptureMode string

const (
	// SingleShot handles one process_audio blob at a time.
	SingleShot CaptureMode = "single"
	// Continuous runs a background capture worker between start_translation and stop_translation.
	Continuous CaptureMode = "continuous"
)

type Config struct {
	Addr            string
	DefaultLanguage string

	CaptureMode         CaptureMode
	CaptureSource       string
	CaptureSampleRate   int
	CalibrationDuration time.Duration
	PauseThreshold      time.Duration
	PhraseTimeLimit     time.Duration

	TranslationProvider   string
	GeminiAPIKey          string
	GeminiModel           string
	AnthropicAPIKey       string
	AnthropicModel        string
	OpenAIAPIKey          string
	OpenAIModel           string
	TranslationBaseURL    string
	TranslationTimeoutSec int

	GoogleCredentialsPath   string
	WhisperAPIURL           string
	WhisperAPIKey           string
	WhisperAPIModel         string
	WhisperModelPath        string
	TranscriptionTimeoutSec int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			return d
		}
	}
	return def
}

func Load() Config {
	mode := CaptureMode(strings.ToLower(getenv("CAPTURE_MODE", string(SingleShot))))
	if mode != Continuous {
		mode = SingleShot
	}
	return Config{
		Addr:            getenv("TRANSLATOR_ADDR", ":5001"),
		DefaultLanguage: getenv("DEFAULT_LANGUAGE", "hi-IN"),

		CaptureMode:         mode,
		CaptureSource:       strings.ToLower(getenv("CAPTURE_SOURCE", "client")),
		CaptureSampleRate:   getenvInt("CAPTURE_SAMPLE_RATE", 16000),
		CalibrationDuration: getenvDuration("CALIBRATION_DURATION", time.Second),
		PauseThreshold:      getenvDuration("PAUSE_THRESHOLD", 800*time.Millisecond),
		PhraseTimeLimit:     getenvDuration("PHRASE_TIME_LIMIT", 10*time.Second),

		TranslationProvider:   strings.ToLower(getenv("TRANSLATION_PROVIDER", "gemini")),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiModel:           getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		AnthropicAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:        getenv("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           getenv("OPENAI_MODEL", "gpt-4o-mini"),
		TranslationBaseURL:    os.Getenv("TRANSLATION_BASE_URL"),
		TranslationTimeoutSec: getenvInt("TRANSLATION_TIMEOUT", 8),

		GoogleCredentialsPath:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		WhisperAPIURL:           os.Getenv("WHISPER_API_URL"),
		WhisperAPIKey:           os.Getenv("WHISPER_API_KEY"),
		WhisperAPIModel:         getenv("WHISPER_API_MODEL", "whisper-1"),
		WhisperModelPath:        getenv("WHISPER_MODEL_PATH", "./models/ggml-base.bin"),
		TranscriptionTimeoutSec: getenvInt("TRANSCRIPTION_TIMEOUT", 30),
	}
}
