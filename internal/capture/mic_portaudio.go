//go:build portaudio

package capture

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog/log"
)

type microphone struct {
	*listener
	stream *portaudio.Stream
	buf    []int16
	once   sync.Once
}

func openMicrophone(_ context.Context, cfg Settings) (Capturer, error) {
	cfg = cfg.withDefaults()
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("default input device: %w", err)
	}

	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = cfg.SampleRate / 10

	m := &microphone{buf: make([]int16, params.FramesPerBuffer)}
	m.stream, err = portaudio.OpenStream(params, m.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	if err := m.stream.Start(); err != nil {
		m.stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start stream: %w", err)
	}
	m.listener = newListener(cfg, m.next)
	log.Info().Str("device", device.Name).Int("rate", cfg.SampleRate).Msg("capture: microphone opened")
	return m, nil
}

// next blocks for one buffer; cancellation is observed between buffers.
func (m *microphone) next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := m.stream.Read(); err != nil {
			if err == portaudio.InputOverflowed {
				continue
			}
			return nil, fmt.Errorf("read microphone: %w", err)
		}
		out := make([]byte, len(m.buf)*2)
		for i, v := range m.buf {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
		}
		return out, nil
	}
}

func (m *microphone) Close() error {
	var err error
	m.once.Do(func() {
		_ = m.stream.Stop()
		err = m.stream.Close()
		portaudio.Terminate()
	})
	return err
}
