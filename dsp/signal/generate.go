// Package signal generates deterministic test signals.
package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// Generator creates signals at a fixed sample rate. Noise is drawn from a
// seeded stream, so two generators with the same seed produce the same
// sequence of calls.
type Generator struct {
	sampleRate float64
	seed       uint64
	rng        *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the noise seed (default 1).
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator returns a generator for sampleRate.
func NewGenerator(sampleRate float64, opts ...Option) (*Generator, error) {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("signal: sample rate must be > 0 and finite: %f", sampleRate)
	}

	g := &Generator{sampleRate: sampleRate, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	g.Reset()

	return g, nil
}

// SampleRate returns the generator's sample rate.
func (g *Generator) SampleRate() float64 { return g.sampleRate }

// Seed returns the noise seed.
func (g *Generator) Seed() uint64 { return g.seed }

// Reset rewinds the noise stream to its seed.
func (g *Generator) Reset() {
	g.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
}

// Sine generates a sine wave starting at phase zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sine samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// WhiteNoise generates uniform noise in [-amplitude, amplitude).
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, samples)
	for i := range out {
		out[i] = (g.rng.Float64()*2 - 1) * amplitude
	}

	return out, nil
}

// LogSweep generates an exponential sine sweep from startHz to endHz.
func (g *Generator) LogSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("signal: sweep samples must be > 0: %d", samples)
	}
	if !(startHz > 0) || !(endHz > startHz) || endHz > g.sampleRate/2 {
		return nil, fmt.Errorf("signal: sweep range %g..%g Hz invalid at %g Hz", startHz, endHz, g.sampleRate)
	}

	out := make([]float64, samples)
	dur := float64(samples) / g.sampleRate
	k := math.Log(endHz / startHz)
	for i := range out {
		t := float64(i) / g.sampleRate
		phase := 2 * math.Pi * startHz * dur / k * (math.Exp(t/dur*k) - 1)
		out[i] = amplitude * math.Sin(phase)
	}

	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, errors.New("signal: normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}

	return out, nil
}
