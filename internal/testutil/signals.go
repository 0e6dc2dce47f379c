// Package testutil holds deterministic signal generators and tolerance
// checks shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
)

// DeterministicSine returns amplitude·sin(2π·freqHz·n/sampleRate).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse returns a unit impulse at pos. Out-of-range positions give
// silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// NoiseBuffer returns a multi-channel buffer of independent noise, channel
// ch seeded with seed+ch.
func NoiseBuffer(seed int64, amplitude float64, channels, length int) *buffer.Audio {
	data := make([][]float64, channels)
	for ch := range data {
		data[ch] = DeterministicNoise(seed+int64(ch), amplitude, length)
	}
	return buffer.FromChannels(data)
}

// DCBuffer returns a buffer with every sample of channel ch set to
// values[ch].
func DCBuffer(length int, values ...float64) *buffer.Audio {
	data := make([][]float64, len(values))
	for ch, v := range values {
		data[ch] = DC(v, length)
	}
	return buffer.FromChannels(data)
}
