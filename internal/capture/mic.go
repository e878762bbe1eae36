package capture

import "context"

// MicrophoneSource captures from the server's default input device.
type MicrophoneSource struct {
	Settings Settings
}

func (MicrophoneSource) Name() string { return "microphone" }

func (m MicrophoneSource) Open(ctx context.Context) (Capturer, error) {
	return openMicrophone(ctx, m.Settings)
}
