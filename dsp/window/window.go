// Package window generates the analysis windows used by the spectrum
// analyzer.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var (
	errEmptyCoeffs      = errors.New("window: no coefficients")
	errZeroCoherentGain = errors.New("window: coefficients sum to zero")
	errMismatchedLength = errors.New("window: frame and window lengths differ")
)

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window: size %d, want > 0", size)
	}
	return nil
}

// Type identifies a window function.
type Type int

const (
	TypeHann Type = iota
	TypeBlackmanHarris
	TypeRectangular
)

func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeBlackmanHarris:
		return "blackman-harris"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form used for FFT framing instead of
// the symmetric form used for filter design.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// 4-term Blackman-Harris, -92 dB sidelobes.
var blackmanHarris = [4]float64{0.35875, 0.48829, 0.14128, 0.01168}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length, cfg.periodic))
	}

	return out
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// BlackmanHarris returns 4-term Blackman-Harris coefficients.
func BlackmanHarris(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeBlackmanHarris, size, opts...), validateLength(size)
}

// CoherentGain returns the mean of the coefficients, the amplitude a
// bin-centered sinusoid keeps after windowing.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	var sum float64
	for _, c := range coeffs {
		sum += c
	}

	g := sum / float64(len(coeffs))
	if g == 0 {
		return 0, errZeroCoherentGain
	}

	return g, nil
}

// ApplyCoefficientsInPlace multiplies samples by coeffs element-wise.
func ApplyCoefficientsInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}

	vecmath.MulBlockInPlace(samples, coeffs)

	return nil
}

// evalWindow evaluates the window at x in [0, 1].
func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeBlackmanHarris:
		a := blackmanHarris
		return a[0] - a[1]*math.Cos(2*math.Pi*x) + a[2]*math.Cos(4*math.Pi*x) - a[3]*math.Cos(6*math.Pi*x)
	default:
		return 1
	}
}

func samplePosition(n, size int, periodic bool) float64 {
	if size == 1 {
		return 0.5
	}

	if periodic {
		return float64(n) / float64(size)
	}

	return float64(n) / float64(size-1)
}
