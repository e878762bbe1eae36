// Package audio holds the linear PCM helpers shared by capture and transcription.
// Everything downstream of framing validation works on mono PCM16 little-endian bytes.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrEmpty       = errors.New("empty audio")
	ErrSampleRate  = errors.New("sample rate must be positive")
	ErrSampleWidth = errors.New("sample width must be 1, 2, 3 or 4 bytes")
)

// ToPCM16 converts raw little-endian samples of the given byte width to PCM16LE.
// Width 1 is unsigned 8-bit as in WAV; wider samples keep their two most significant bytes.
func ToPCM16(raw []byte, width int) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}
	if width < 1 || width > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrSampleWidth, width)
	}
	if len(raw)%width != 0 {
		return nil, fmt.Errorf("audio length %d is not a multiple of sample width %d", len(raw), width)
	}
	if width == 2 {
		return append([]byte(nil), raw...), nil
	}
	n := len(raw) / width
	out := make([]byte, n*2)
	for i := 0; i < n; i++ {
		frame := raw[i*width : (i+1)*width]
		var v int16
		switch width {
		case 1:
			v = int16(int(frame[0])-128) << 8
		default:
			v = int16(binary.LittleEndian.Uint16(frame[width-2:]))
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out, nil
}

// DecodePCM16LEToFloat32 converts little-endian PCM16 bytes into float32 samples and returns the given sample rate.
func DecodePCM16LEToFloat32(b []byte, sampleRate int) ([]float32, int, error) {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	if len(b)%2 != 0 {
		return nil, 0, errors.New("pcm16 length must be even")
	}
	out := make([]float32, len(b)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(b[2*i:]))
		out[i] = float32(v) / 32768.0
	}
	return out, sampleRate, nil
}

// Float32ToPCM16LE clamps samples to [-1,1] and encodes them as PCM16LE.
func Float32ToPCM16LE(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		var v int16
		if s < 0 {
			v = int16(s * 32768)
		} else {
			v = int16(s * 32767)
		}
		binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
	}
	return out
}

// ResampleLinear resamples PCM32F from inRate to outRate using linear interpolation.
func ResampleLinear(samples []float32, inRate, outRate int) []float32 {
	if inRate <= 0 || outRate <= 0 || inRate == outRate || len(samples) == 0 {
		if inRate == outRate {
			return append([]float32(nil), samples...)
		}
		return samples
	}
	ratio := float64(outRate) / float64(inRate)
	outLen := int(float64(len(samples)) * ratio)
	if outLen <= 1 {
		outLen = 1
	}
	out := make([]float32, outLen)
	for i := 0; i < outLen; i++ {
		srcPos := float64(i) / ratio
		i0 := int(srcPos)
		if i0 >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(srcPos - float64(i0))
		s0 := samples[i0]
		s1 := samples[i0+1]
		out[i] = s0 + (s1-s0)*frac
	}
	return out
}

// ResamplePCM16 resamples PCM16LE bytes. Odd trailing bytes are dropped.
func ResamplePCM16(pcm []byte, inRate, outRate int) []byte {
	if inRate == outRate || inRate <= 0 || outRate <= 0 {
		return pcm
	}
	f, _, err := DecodePCM16LEToFloat32(pcm[:len(pcm)&^1], inRate)
	if err != nil {
		return pcm
	}
	return Float32ToPCM16LE(ResampleLinear(f, inRate, outRate))
}

// RMS returns the root mean square amplitude of PCM16LE samples on the int16 scale.
func RMS(pcm []byte) float64 {
	n := len(pcm) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		v := float64(int16(binary.LittleEndian.Uint16(pcm[2*i:])))
		sum += v * v
	}
	return math.Sqrt(sum / float64(n))
}

// Duration reports how long PCM16LE mono audio plays at sampleRate.
func Duration(pcm []byte, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	samples := len(pcm) / 2
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
