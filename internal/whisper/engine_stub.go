//go:build !whisper_cpp

package whisper

// Default stub (no cgo) so the project builds without whisper_cpp tag.
func NewEngine(modelPath string) (Engine, error) { return nil, ErrUnavailable }
