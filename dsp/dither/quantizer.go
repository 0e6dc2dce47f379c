package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	minBitDepth = 2
	maxBitDepth = 32
)

// Quantizer maps samples in [-1, 1) onto signed integers of a fixed bit
// depth. It carries error-feedback state, so use one per channel.
type Quantizer struct {
	bitDepth        int
	ditherType      DitherType
	ditherAmplitude float64
	shaping         bool
	rng             *rand.Rand

	scale   float64
	limitLo float64
	limitHi float64
	err     float64
}

// NewQuantizer returns a quantizer for bitDepth-bit PCM. The default is
// triangular dither of one LSB without noise shaping.
func NewQuantizer(bitDepth int, opts ...Option) (*Quantizer, error) {
	if bitDepth < minBitDepth || bitDepth > maxBitDepth {
		return nil, fmt.Errorf("dither: bit depth must be in [%d, %d]: %d", minBitDepth, maxBitDepth, bitDepth)
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	q := &Quantizer{
		bitDepth:        bitDepth,
		ditherType:      cfg.ditherType,
		ditherAmplitude: cfg.ditherAmplitude,
		shaping:         cfg.shaping,
		rng:             cfg.rng,
		scale:           math.Ldexp(1, bitDepth-1),
	}

	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	q.limitLo = -q.scale
	q.limitHi = q.scale - 1

	return q, nil
}

// ProcessInteger quantizes input and clamps it to the bit-depth range.
func (q *Quantizer) ProcessInteger(input float64) int {
	target := q.scale * input
	if q.shaping {
		target -= q.err
	}

	result := math.Round(target + q.noise())
	result = max(q.limitLo, min(q.limitHi, result))

	if q.shaping {
		// Clamped overs are not fed back.
		q.err = max(-1, min(1, result-target))
	}

	return int(result)
}

// ProcessSample returns the quantized value of input rescaled to [-1, 1).
func (q *Quantizer) ProcessSample(input float64) float64 {
	return float64(q.ProcessInteger(input)) / q.scale
}

// ProcessInto quantizes src into dst, which must be at least as long.
func (q *Quantizer) ProcessInto(dst []int, src []float64) {
	for i, x := range src {
		dst[i] = q.ProcessInteger(x)
	}
}

// Reset clears the error-feedback state.
func (q *Quantizer) Reset() {
	q.err = 0
}

func (q *Quantizer) noise() float64 {
	switch q.ditherType {
	case DitherRectangular:
		return q.ditherAmplitude * (q.rng.Float64() - 0.5)
	case DitherTriangular:
		return q.ditherAmplitude * (q.rng.Float64() - q.rng.Float64())
	default:
		return 0
	}
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// DitherType returns the dither noise type.
func (q *Quantizer) DitherType() DitherType { return q.ditherType }

// NoiseShaping reports whether error feedback is enabled.
func (q *Quantizer) NoiseShaping() bool { return q.shaping }
