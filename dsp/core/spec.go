package core

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpec is returned when a ProcessSpec cannot be prepared.
var ErrInvalidSpec = errors.New("invalid process spec")

// ProcessSpec describes the stream format a processor is prepared for.
// Processors allocate all state for this format up front and must not
// allocate again until the format changes.
type ProcessSpec struct {
	SampleRate   float64
	MaxBlockSize int
	NumChannels  int
}

// DefaultProcessSpec returns a stereo 48 kHz spec with 512-sample blocks.
func DefaultProcessSpec() ProcessSpec {
	return ProcessSpec{
		SampleRate:   48000,
		MaxBlockSize: 512,
		NumChannels:  2,
	}
}

// Validate reports whether the spec can be prepared.
func (s ProcessSpec) Validate() error {
	if s.SampleRate <= 0 || math.IsNaN(s.SampleRate) || math.IsInf(s.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate must be positive and finite, got %v", ErrInvalidSpec, s.SampleRate)
	}

	if s.MaxBlockSize <= 0 {
		return fmt.Errorf("%w: max block size must be positive, got %d", ErrInvalidSpec, s.MaxBlockSize)
	}

	if s.NumChannels <= 0 {
		return fmt.Errorf("%w: channel count must be positive, got %d", ErrInvalidSpec, s.NumChannels)
	}

	return nil
}

// Nyquist returns half the sample rate.
func (s ProcessSpec) Nyquist() float64 {
	return s.SampleRate / 2
}
