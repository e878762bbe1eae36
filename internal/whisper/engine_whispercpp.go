//go:build whisper_cpp

package whisper

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/rs/zerolog/log"
)

type engineCPP struct {
	model   whisperpkg.Model
	threads uint
	mu      sync.Mutex // whisper.cpp contexts must not process concurrently
}

func NewEngine(modelPath string) (Engine, error) {
	threads := uint(runtime.NumCPU())
	if v := os.Getenv("WHISPER_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			threads = uint(n)
		}
	}

	m, err := whisperpkg.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	log.Info().Str("model", modelPath).Uint("threads", threads).Msg("whisper: model loaded")
	return &engineCPP{model: m, threads: threads}, nil
}

func (e *engineCPP) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}

func (e *engineCPP) Transcribe(samples []float32, lang string) (string, string, error) {
	// < 100ms of audio carries no speech worth decoding
	if len(samples) < SampleRate/10 {
		return "", "", nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	const maxSamples = 30 * SampleRate
	if len(samples) > maxSamples {
		log.Warn().Int("samples", len(samples)).Int("max", maxSamples).Msg("whisper: truncating long audio")
		samples = samples[len(samples)-maxSamples:]
	}

	ctx, err := e.model.NewContext()
	if err != nil {
		return "", "", fmt.Errorf("create context: %w", err)
	}
	if lang == "" {
		lang = "auto"
	}
	ctx.SetThreads(e.threads)
	if err := ctx.SetLanguage(lang); err != nil {
		log.Debug().Err(err).Str("language", lang).Msg("whisper: language rejected, using auto")
		_ = ctx.SetLanguage("auto")
	}
	ctx.SetSplitOnWord(true)
	ctx.SetMaxSegmentLength(0)
	ctx.SetMaxTokensPerSegment(0)
	ctx.SetAudioCtx(0)

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return "", "", fmt.Errorf("process audio: %w", err)
	}

	var segments []string
	for {
		seg, err := ctx.NextSegment()
		if err != nil {
			if err == io.EOF {
				break
			}
			log.Warn().Err(err).Msg("whisper: error reading segment")
			break
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			segments = append(segments, text)
		}
	}

	detected := ctx.Language()
	if detected == "" || detected == "auto" {
		detected = ctx.DetectedLanguage()
	}
	full := strings.TrimSpace(strings.Join(segments, " "))
	log.Debug().Str("lang", detected).Int("segments", len(segments)).Int("samples", len(samples)).Msg("whisper: transcription complete")
	return full, detected, nil
}
