// Package session holds per-connection state and the process-wide registry of live sessions.
package session

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Mode int

const (
	Idle Mode = iota
	Listening
	Processing
)

func (m Mode) String() string {
	switch m {
	case Listening:
		return "listening"
	case Processing:
		return "processing"
	default:
		return "idle"
	}
}

// Entry is one utterance whose transcription and translation both succeeded.
type Entry struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// Session is the state owned by one client connection. Fields are guarded by mu; the pipeline
// lock serialises transcribe -> translate -> emit cycles so utterances never overlap.
type Session struct {
	ID  string
	Log zerolog.Logger

	mu       sync.Mutex
	language string
	mode     Mode
	history  []Entry
	worker   *Worker

	pipeline sync.Mutex
}

func New(id, language string) *Session {
	return &Session{
		ID:       id,
		Log:      log.With().Str("session", id).Logger(),
		language: language,
	}
}

func (s *Session) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

func (s *Session) SetLanguage(code string) {
	s.mu.Lock()
	s.language = code
	s.mu.Unlock()
}

func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// History returns a copy of the accumulated entries.
func (s *Session) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.history...)
}

func (s *Session) AppendHistory(e Entry) {
	s.mu.Lock()
	s.history = append(s.history, e)
	s.mu.Unlock()
}

// LockPipeline blocks until no other utterance of this session is in flight.
func (s *Session) LockPipeline()   { s.pipeline.Lock() }
func (s *Session) UnlockPipeline() { s.pipeline.Unlock() }

// BeginProcessing moves an idle session to Processing and returns the previous mode.
// A listening session stays Listening; its single-shot cycle runs between utterances.
func (s *Session) BeginProcessing() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.mode
	if prev == Idle {
		s.mode = Processing
	}
	return prev
}

func (s *Session) EndProcessing() {
	s.mu.Lock()
	if s.mode == Processing {
		s.mode = Idle
	}
	s.mu.Unlock()
}

// Worker returns the active worker, if any.
func (s *Session) Worker() *Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.worker
}

// AttachWorker installs w, clears the history and enters Listening.
// It returns false, leaving the session untouched, when a worker is already attached.
func (s *Session) AttachWorker(w *Worker) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.worker != nil {
		return false
	}
	s.worker = w
	s.history = nil
	s.mode = Listening
	return true
}

// DetachWorker cancels the active worker and returns the session to Idle. The caller must wait
// on the returned worker's Done before touching state the worker may still read.
func (s *Session) DetachWorker() *Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.worker
	if w == nil {
		return nil
	}
	w.cancel()
	s.worker = nil
	s.mode = Idle
	return w
}

// EmitIfActive runs fn under the session lock only while w has not been asked to stop.
// Once DetachWorker has run, fn is never called for w. fn must not call locking Session methods.
func (s *Session) EmitIfActive(w *Worker, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// RecordIfActive appends e to the history and runs emit, both under the session lock, unless w
// has been asked to stop. fn and emit must not call back into locking Session methods.
func (s *Session) RecordIfActive(w *Worker, e Entry, emit func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ctx.Err() != nil {
		return false
	}
	s.history = append(s.history, e)
	emit()
	return true
}

// ReleaseWorker is called by a worker that exits on its own. If w is still attached, the session
// returns to Idle and fn runs under the session lock.
func (s *Session) ReleaseWorker(w *Worker, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.worker != w {
		return false
	}
	w.cancel()
	s.worker = nil
	s.mode = Idle
	if fn != nil {
		fn()
	}
	return true
}
