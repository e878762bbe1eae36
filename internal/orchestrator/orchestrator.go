// Package orchestrator drives each session through its lifecycle: it decides when to call the
// transcription and translation adapters and turns every outcome into events for the owning
// session only.
package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/obiente/translate/livetranslate/internal/capture"
	"github.com/obiente/translate/livetranslate/internal/config"
	"github.com/obiente/translate/livetranslate/internal/language"
	"github.com/obiente/translate/livetranslate/internal/session"
	"github.com/obiente/translate/livetranslate/internal/transcription"
)

// Outbound event names.
const (
	EventStatus      = "status_update"
	EventTranslation = "translation_update"
	EventHistory     = "history_update"
)

type StatusPayload struct {
	Status string `json:"status"`
}

type TranslationPayload struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

type HistoryPayload struct {
	Entries []session.Entry `json:"entries"`
}

// Emitter delivers an event to exactly one session's connection.
type Emitter interface {
	Emit(sessionID, event string, payload any) error
}

type Transcriber interface {
	Transcribe(ctx context.Context, req transcription.Request) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceName string) (string, error)
}

type Options struct {
	Mode                config.CaptureMode
	DefaultLanguage     string
	CalibrationDuration time.Duration
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Mode:                cfg.CaptureMode,
		DefaultLanguage:     cfg.DefaultLanguage,
		CalibrationDuration: cfg.CalibrationDuration,
	}
}

// AudioInput is one process_audio request. Zero SampleRate/SampleWidth take the 16kHz/16-bit defaults.
type AudioInput struct {
	Audio       []byte
	SampleRate  int
	SampleWidth int
	Language    string
}

// ErrUnknownSession is returned for events addressed to a session that is not registered.
var ErrUnknownSession = errors.New("unknown session")

type Orchestrator struct {
	opts     Options
	registry *session.Registry
	emitter  Emitter
	stt      Transcriber
	tr       Translator
	source   capture.Source
}

func New(opts Options, registry *session.Registry, emitter Emitter, stt Transcriber, tr Translator, source capture.Source) *Orchestrator {
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = "hi-IN"
	}
	return &Orchestrator{
		opts:     opts,
		registry: registry,
		emitter:  emitter,
		stt:      stt,
		tr:       tr,
		source:   source,
	}
}

func (o *Orchestrator) Registry() *session.Registry { return o.registry }

func (o *Orchestrator) status(s *session.Session, msg string) {
	if err := o.emitter.Emit(s.ID, EventStatus, StatusPayload{Status: msg}); err != nil {
		s.Log.Debug().Err(err).Str("status", msg).Msg("status not delivered")
	}
}

func (o *Orchestrator) translation(s *session.Session, e session.Entry) {
	if err := o.emitter.Emit(s.ID, EventTranslation, TranslationPayload{Original: e.Original, Translated: e.Translated}); err != nil {
		s.Log.Warn().Err(err).Msg("translation not delivered")
	}
}

func (o *Orchestrator) lookup(id string) (*session.Session, error) {
	s, ok := o.registry.Get(id)
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// Connect registers a new Idle session with the default language.
func (o *Orchestrator) Connect(id string) (*session.Session, error) {
	s := session.New(id, o.opts.DefaultLanguage)
	if err := o.registry.Add(s); err != nil {
		return nil, err
	}
	s.Log.Info().Str("language", o.opts.DefaultLanguage).Msg("client connected")
	o.status(s, "Connected and ready.")
	return s, nil
}

// Disconnect halts and joins the session's worker, waits for any in-flight cycle and removes the session.
func (o *Orchestrator) Disconnect(id string) {
	s, ok := o.registry.Get(id)
	if !ok {
		return
	}
	if w := s.DetachWorker(); w != nil {
		<-w.Done()
	}
	s.LockPipeline()
	o.registry.Remove(id)
	s.UnlockPipeline()
	s.Log.Info().Int("history", len(s.History())).Msg("client disconnected")
}

// Shutdown disconnects every registered session.
func (o *Orchestrator) Shutdown() {
	for _, id := range o.registry.IDs() {
		o.Disconnect(id)
	}
}

func (o *Orchestrator) SetLanguage(id, code string) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	if code == "" {
		o.status(s, "Error: No language provided.")
		return nil
	}
	s.SetLanguage(code)
	s.Log.Info().Str("language", code).Msg("language set")
	o.status(s, "Language set to "+language.DisplayName(code))
	return nil
}

// History sends the session's accumulated entries.
func (o *Orchestrator) History(id string) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	entries := s.History()
	if entries == nil {
		entries = []session.Entry{}
	}
	return o.emitter.Emit(id, EventHistory, HistoryPayload{Entries: entries})
}

// ProcessAudio runs one transcribe -> translate cycle for a client-recorded blob. Cycles of the
// same session run one at a time; a second call waits for the first.
func (o *Orchestrator) ProcessAudio(ctx context.Context, id string, in AudioInput) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	if in.Language != "" {
		s.SetLanguage(in.Language)
	}
	if len(in.Audio) == 0 {
		s.Log.Warn().Msg("no audio data received")
		o.status(s, "Error: No audio data received.")
		return nil
	}
	if in.SampleRate == 0 {
		in.SampleRate = 16000
	}
	if in.SampleWidth == 0 {
		in.SampleWidth = 2
	}

	s.LockPipeline()
	defer s.UnlockPipeline()
	s.BeginProcessing()
	defer s.EndProcessing()

	o.status(s, "Processing...")
	lang := s.Language()
	s.Log.Info().Int("bytes", len(in.Audio)).Int("sample_rate", in.SampleRate).Str("language", lang).Msg("processing audio")

	entry, err := o.cycle(ctx, s, transcription.Request{
		Audio:       in.Audio,
		SampleRate:  in.SampleRate,
		SampleWidth: in.SampleWidth,
		Language:    lang,
	})
	if err != nil {
		o.status(s, describe(err))
		return nil
	}
	s.AppendHistory(entry)
	o.translation(s, entry)
	o.status(s, "Ready for next input.")
	return nil
}

// cycle transcribes then translates one utterance. Translation never starts before transcription
// has returned.
func (o *Orchestrator) cycle(ctx context.Context, s *session.Session, req transcription.Request) (session.Entry, error) {
	start := time.Now()
	original, err := o.stt.Transcribe(ctx, req)
	if err != nil {
		logOutcome(s, err, "transcription failed")
		return session.Entry{}, err
	}
	s.Log.Info().Str("original", original).Dur("took", time.Since(start)).Msg("transcribed")

	translated, err := o.tr.Translate(ctx, original, language.DisplayName(req.Language))
	if err != nil {
		logOutcome(s, err, "translation failed")
		return session.Entry{Original: original}, err
	}
	s.Log.Info().Str("translated", translated).Dur("took", time.Since(start)).Msg("translated")
	return session.Entry{Original: original, Translated: translated}, nil
}

func logOutcome(s *session.Session, err error, msg string) {
	if errors.Is(err, transcription.ErrUnintelligible) {
		s.Log.Info().Msg("could not understand audio, it might be music or silence")
		return
	}
	s.Log.Warn().Err(err).Msg(msg)
}
