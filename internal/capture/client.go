package capture

import (
	"context"
	"sync"

	"github.com/obiente/translate/livetranslate/internal/audio"
)

// ClientSource captures audio streamed by the session's own client.
type ClientSource struct {
	Settings Settings
}

func (ClientSource) Name() string { return "client" }

func (c ClientSource) Open(context.Context) (Capturer, error) {
	return NewStream(c.Settings), nil
}

// Stream buffers client frames until the listener consumes them.
type Stream struct {
	*listener
	frames chan []byte
	done   chan struct{}
	once   sync.Once
}

func NewStream(cfg Settings) *Stream {
	s := &Stream{
		frames: make(chan []byte, 256),
		done:   make(chan struct{}),
	}
	s.listener = newListener(cfg, s.next)
	return s
}

// Feed queues raw little-endian samples, converting them to PCM16 at the capture rate.
func (s *Stream) Feed(raw []byte, sampleRate, sampleWidth int) error {
	pcm, err := audio.ToPCM16(raw, sampleWidth)
	if err != nil {
		return err
	}
	if sampleRate > 0 {
		pcm = audio.ResamplePCM16(pcm, sampleRate, s.cfg.SampleRate)
	}
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.frames <- pcm:
		return nil
	case <-s.done:
		return ErrClosed
	default:
		return ErrBufferFull
	}
}

func (s *Stream) next(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrClosed
	case f := <-s.frames:
		return f, nil
	}
}

func (s *Stream) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}
