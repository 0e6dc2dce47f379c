package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

type config struct {
	ditherType      DitherType
	ditherAmplitude float64
	shaping         bool
	rng             *rand.Rand
}

func defaultConfig() config {
	return config{
		ditherType:      DitherTriangular,
		ditherAmplitude: 1,
	}
}

// Option configures a [Quantizer].
type Option func(*config) error

// WithDitherType sets the dither noise PDF (default [DitherTriangular]).
func WithDitherType(dt DitherType) Option {
	return func(cfg *config) error {
		if !dt.Valid() {
			return fmt.Errorf("dither: invalid dither type: %d", dt)
		}

		cfg.ditherType = dt

		return nil
	}
}

// WithDitherAmplitude scales the dither noise in LSB (default 1).
func WithDitherAmplitude(amp float64) Option {
	return func(cfg *config) error {
		if amp < 0 || math.IsNaN(amp) || math.IsInf(amp, 0) {
			return fmt.Errorf("dither: amplitude must be >= 0 and finite: %f", amp)
		}

		cfg.ditherAmplitude = amp

		return nil
	}
}

// WithNoiseShaping enables first-order error feedback.
func WithNoiseShaping(enabled bool) Option {
	return func(cfg *config) error {
		cfg.shaping = enabled
		return nil
	}
}

// WithRNG sets the noise source.
func WithRNG(rng *rand.Rand) Option {
	return func(cfg *config) error {
		cfg.rng = rng
		return nil
	}
}

// WithSeed is WithRNG with a PCG source seeded by seed.
func WithSeed(seed uint64) Option {
	return WithRNG(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}
