package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/obiente/translate/livetranslate/internal/capture"
	"github.com/obiente/translate/livetranslate/internal/config"
	serverhttp "github.com/obiente/translate/livetranslate/internal/http"
	"github.com/obiente/translate/livetranslate/internal/orchestrator"
	"github.com/obiente/translate/livetranslate/internal/session"
	"github.com/obiente/translate/livetranslate/internal/transcription"
	"github.com/obiente/translate/livetranslate/internal/translation"
	"github.com/obiente/translate/livetranslate/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	lvl := zerolog.InfoLevel
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if l, err := zerolog.ParseLevel(v); err == nil {
			lvl = l
		}
	}
	log.Logger = log.Level(lvl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	stt := transcription.NewAdapter(transcription.Select(ctx, cfg), cfg.TranscriptionTimeoutSec)
	defer stt.Close()
	tr := translation.FromConfig(ctx, cfg)

	var source capture.Source
	if cfg.CaptureMode == config.Continuous {
		source = capture.NewSource(cfg)
	}

	hub := ws.NewHub()
	orch := orchestrator.New(orchestrator.OptionsFromConfig(cfg), session.NewRegistry(), hub, stt, tr, source)
	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     serverhttp.NewRouter(ws.NewServer(hub, orch)),
		ReadTimeout: 30 * time.Second,
	}

	log.Info().
		Str("addr", cfg.Addr).
		Str("mode", string(cfg.CaptureMode)).
		Str("transcription", stt.Backend()).
		Str("translation", tr.Provider()).
		Msg("live translator starting")

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Warn().Err(err).Msg("http shutdown")
		}
		orch.Shutdown()
	}
}
