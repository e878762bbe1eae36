package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/obiente/translate/livetranslate/internal/capture"
	"github.com/obiente/translate/livetranslate/internal/config"
	"github.com/obiente/translate/livetranslate/internal/session"
	"github.com/obiente/translate/livetranslate/internal/transcription"
)

// StartTranslation spawns the session's continuous-listening worker. It is a no-op with an
// informational status while the session is already listening.
func (o *Orchestrator) StartTranslation(id string) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	if o.opts.Mode != config.Continuous || o.source == nil {
		o.status(s, "Continuous listening is disabled on this server.")
		return nil
	}
	if s.Worker() != nil {
		o.status(s, "Translation is already running.")
		return nil
	}

	c, err := o.source.Open(context.Background())
	if err != nil {
		s.Log.Error().Err(err).Str("source", o.source.Name()).Msg("capture open failed")
		o.status(s, "Error starting audio capture: "+err.Error())
		return nil
	}
	w := session.NewWorker(context.Background(), c)
	if !s.AttachWorker(w) {
		_ = c.Close()
		o.status(s, "Translation is already running.")
		return nil
	}
	s.Log.Info().Str("source", o.source.Name()).Msg("listening started")
	o.status(s, "Translation started.")
	w.Run(func(ctx context.Context) { o.listen(ctx, s, w) })
	return nil
}

// StopTranslation signals the worker to halt and returns once it has fully exited.
func (o *Orchestrator) StopTranslation(id string) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	w := s.DetachWorker()
	if w == nil {
		o.status(s, "Translation is not running.")
		return nil
	}
	<-w.Done()
	s.Log.Info().Msg("listening stopped")
	o.status(s, "Translation stopped.")
	return nil
}

// FeedAudio hands client-streamed audio to the session's capturer. Audio outside Listening is dropped.
func (o *Orchestrator) FeedAudio(id string, raw []byte, sampleRate, sampleWidth int) error {
	s, err := o.lookup(id)
	if err != nil {
		return err
	}
	w := s.Worker()
	if w == nil {
		s.Log.Debug().Int("bytes", len(raw)).Msg("audio chunk outside listening, dropped")
		return nil
	}
	f, ok := w.Capturer().(capture.Feeder)
	if !ok {
		return nil
	}
	if sampleWidth == 0 {
		sampleWidth = 2
	}
	if err := f.Feed(raw, sampleRate, sampleWidth); err != nil && !errors.Is(err, capture.ErrClosed) {
		s.Log.Warn().Err(err).Msg("audio chunk rejected")
	}
	return nil
}

// listen is the worker body: calibrate once, then capture and process utterances one at a time
// until cancelled. Unexpected failures end the worker and return the session to Idle.
func (o *Orchestrator) listen(ctx context.Context, s *session.Session, w *session.Worker) {
	c := w.Capturer()
	defer c.Close()
	defer func() {
		if r := recover(); r != nil {
			o.fault(s, w, fmt.Errorf("panic: %v", r))
		}
	}()

	if d := o.opts.CalibrationDuration; d > 0 {
		o.emitStatus(s, w, "Calibrating for ambient noise...")
		if err := c.Calibrate(ctx, d); err != nil {
			if ctx.Err() == nil {
				o.fault(s, w, fmt.Errorf("calibrate: %w", err))
			}
			return
		}
	}
	o.emitStatus(s, w, "Listening...")

	for ctx.Err() == nil {
		u, err := c.Listen(ctx)
		if err != nil {
			if ctx.Err() == nil {
				o.fault(s, w, fmt.Errorf("capture: %w", err))
			}
			return
		}
		if err := o.handleUtterance(ctx, s, w, u); err != nil {
			o.fault(s, w, err)
			return
		}
	}
}

func (o *Orchestrator) handleUtterance(ctx context.Context, s *session.Session, w *session.Worker, u capture.Utterance) error {
	s.LockPipeline()
	defer s.UnlockPipeline()
	if ctx.Err() != nil {
		return nil
	}

	entry, err := o.cycle(ctx, s, transcription.Request{
		Audio:       u.PCM,
		SampleRate:  u.SampleRate,
		SampleWidth: 2,
		Language:    s.Language(),
	})
	switch {
	case ctx.Err() != nil:
		return nil
	case err == nil:
		s.RecordIfActive(w, entry, func() { o.translation(s, entry) })
		return nil
	case errors.Is(err, transcription.ErrUnintelligible):
		return nil
	case recoverable(err):
		o.emitStatus(s, w, describe(err))
		return nil
	default:
		return err
	}
}

func (o *Orchestrator) emitStatus(s *session.Session, w *session.Worker, msg string) {
	s.EmitIfActive(w, func() { o.status(s, msg) })
}

func (o *Orchestrator) fault(s *session.Session, w *session.Worker, err error) {
	s.Log.Error().Err(err).Msg("listening worker failed")
	s.ReleaseWorker(w, func() {
		o.status(s, "Listening stopped: "+describe(err))
	})
}
