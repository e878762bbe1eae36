package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/obiente/translate/livetranslate/internal/capture"
	"github.com/obiente/translate/livetranslate/internal/config"
	"github.com/obiente/translate/livetranslate/internal/session"
	"github.com/obiente/translate/livetranslate/internal/transcription"
)

type event struct {
	session string
	name    string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) Emit(id, name string, payload any) error {
	r.mu.Lock()
	r.events = append(r.events, event{session: id, name: name, payload: payload})
	r.mu.Unlock()
	return nil
}

func (r *recorder) of(id string) []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []event
	for _, e := range r.events {
		if e.session == id {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) statuses(id string) []string {
	var out []string
	for _, e := range r.of(id) {
		if e.name == EventStatus {
			out = append(out, e.payload.(StatusPayload).Status)
		}
	}
	return out
}

func (r *recorder) translations(id string) []TranslationPayload {
	var out []TranslationPayload
	for _, e := range r.of(id) {
		if e.name == EventTranslation {
			out = append(out, e.payload.(TranslationPayload))
		}
	}
	return out
}

func (r *recorder) hasStatus(id, status string) bool {
	for _, s := range r.statuses(id) {
		if s == status {
			return true
		}
	}
	return false
}

type fakeSTT struct {
	calls atomic.Int32
	fn    func(ctx context.Context, req transcription.Request) (string, error)

	mu  sync.Mutex
	req transcription.Request
}

func (f *fakeSTT) Transcribe(ctx context.Context, req transcription.Request) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.req = req
	f.mu.Unlock()
	return f.fn(ctx, req)
}

func (f *fakeSTT) last() transcription.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.req
}

func sttReturning(text string, err error) *fakeSTT {
	return &fakeSTT{fn: func(context.Context, transcription.Request) (string, error) { return text, err }}
}

type fakeTranslator struct {
	calls atomic.Int32
	fn    func(ctx context.Context, text, source string) (string, error)

	mu     sync.Mutex
	source string
}

func (f *fakeTranslator) Translate(ctx context.Context, text, source string) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.source = source
	f.mu.Unlock()
	return f.fn(ctx, text, source)
}

func dictionary(words map[string]string) *fakeTranslator {
	return &fakeTranslator{fn: func(_ context.Context, text, _ string) (string, error) {
		return words[text], nil
	}}
}

type fakeCapturer struct {
	utts       chan capture.Utterance
	calibrated atomic.Int32
	closed     atomic.Bool
	fed        chan []byte
}

func (c *fakeCapturer) Calibrate(context.Context, time.Duration) error {
	c.calibrated.Add(1)
	return nil
}

func (c *fakeCapturer) Listen(ctx context.Context) (capture.Utterance, error) {
	select {
	case <-ctx.Done():
		return capture.Utterance{}, ctx.Err()
	case u, ok := <-c.utts:
		if !ok {
			return capture.Utterance{}, errors.New("device lost")
		}
		return u, nil
	}
}

func (c *fakeCapturer) Feed(raw []byte, _, _ int) error {
	c.fed <- raw
	return nil
}

func (c *fakeCapturer) Close() error {
	c.closed.Store(true)
	return nil
}

type fakeSource struct {
	mu     sync.Mutex
	opened []*fakeCapturer
	err    error
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Open(context.Context) (capture.Capturer, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := &fakeCapturer{utts: make(chan capture.Utterance, 8), fed: make(chan []byte, 8)}
	s.mu.Lock()
	s.opened = append(s.opened, c)
	s.mu.Unlock()
	return c, nil
}

func (s *fakeSource) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.opened)
}

func (s *fakeSource) capturer(i int) *fakeCapturer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened[i]
}

var utterance = capture.Utterance{PCM: make([]byte, 3200), SampleRate: 16000}

type harness struct {
	orch   *Orchestrator
	rec    *recorder
	source *fakeSource
}

func newHarness(mode config.CaptureMode, stt Transcriber, tr Translator) *harness {
	h := &harness{rec: &recorder{}, source: &fakeSource{}}
	h.orch = New(Options{
		Mode:                mode,
		DefaultLanguage:     "hi-IN",
		CalibrationDuration: 10 * time.Millisecond,
	}, session.NewRegistry(), h.rec, stt, tr, h.source)
	return h
}

func (h *harness) connect(t *testing.T, id string) *session.Session {
	t.Helper()
	s, err := h.orch.Connect(id)
	if err != nil {
		t.Fatalf("Connect(%s): %v", id, err)
	}
	return s
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
