// Package audio plays the tone that sounds while the sound timer of the
// machine is running.
package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"sync/atomic"

	"github.com/retroenv/retrogolib/log"
)

const (
	// SampleRate is the number of samples per second of the tone output.
	SampleRate = 44100

	// Frequency of the square wave tone in Hz.
	Frequency = 440

	amplitude   = 0.2
	sampleBytes = 4 // float32 mono samples
)

// ErrUnavailable is returned in builds without audio support.
var ErrUnavailable = errors.New("audio output is not available in this build")

// Device is a tone output that can be closed.
type Device interface {
	SetActive(active bool)
	Close() error
}

// Silent is a device that plays nothing.
type Silent struct{}

// SetActive implements runner.Sound.
func (Silent) SetActive(bool) {}

// Close implements io.Closer.
func (Silent) Close() error { return nil }

// Open returns the audio device. If muted or audio output can not be
// initialized, a silent device is returned.
func Open(logger *log.Logger, mute bool) Device {
	if mute {
		return Silent{}
	}

	device, err := newPlayer()
	if err != nil {
		logger.Warn("Audio output disabled", log.Err(err))
		return Silent{}
	}
	return device
}

// squareWave is a reader of float32 samples of a square wave that outputs
// silence while it is not active.
type squareWave struct {
	active atomic.Bool
	period int // samples per wave period
	pos    int
}

func newSquareWave() *squareWave {
	return &squareWave{
		period: SampleRate / Frequency,
	}
}

// Read implements io.Reader. Only whole samples are written.
func (w *squareWave) Read(p []byte) (int, error) {
	n := len(p) / sampleBytes * sampleBytes
	active := w.active.Load()

	for i := 0; i < n; i += sampleBytes {
		var sample float32
		if active {
			sample = amplitude
			if w.pos >= w.period/2 {
				sample = -amplitude
			}
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(sample))

		w.pos++
		if w.pos == w.period {
			w.pos = 0
		}
	}
	return n, nil
}
