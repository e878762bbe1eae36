//go:build !portaudio

package capture

import (
	"context"
	"errors"
)

// ErrMicrophoneUnavailable is returned when the binary was built without PortAudio.
var ErrMicrophoneUnavailable = errors.New("microphone capture not built (rebuild with -tags portaudio)")

func openMicrophone(context.Context, Settings) (Capturer, error) {
	return nil, ErrMicrophoneUnavailable
}
