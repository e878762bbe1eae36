package session

import (
	"context"

	"github.com/obiente/translate/livetranslate/internal/capture"
)

// Worker is the handle of one continuous-listening goroutine. Cancellation is cooperative:
// the goroutine checks its context at loop boundaries and closes Done when it has exited.
type Worker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	capturer capture.Capturer
}

func NewWorker(parent context.Context, c capture.Capturer) *Worker {
	ctx, cancel := context.WithCancel(parent)
	return &Worker{ctx: ctx, cancel: cancel, done: make(chan struct{}), capturer: c}
}

func (w *Worker) Context() context.Context   { return w.ctx }
func (w *Worker) Capturer() capture.Capturer { return w.capturer }
func (w *Worker) Done() <-chan struct{}      { return w.done }

// Run executes fn on a new goroutine and closes Done when it returns.
func (w *Worker) Run(fn func(ctx context.Context)) {
	go func() {
		defer close(w.done)
		fn(w.ctx)
	}()
}
