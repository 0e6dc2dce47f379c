package null

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/crossover"
	"gonum.org/v1/gonum/floats"
)

// FloorDB is reported for a perfect null.
const FloorDB = -300.0

// ResidualDB returns 20·log10(‖reference − test‖ / ‖reference‖). Only the
// common prefix of the two slices is compared. A silent reference yields
// FloorDB when test is silent too and +Inf otherwise.
func ResidualDB(reference, test []float64) float64 {
	n := min(len(reference), len(test))
	if n == 0 {
		return FloorDB
	}

	ref, got := reference[:n], test[:n]
	dist := floats.Distance(ref, got, 2)
	norm := floats.Norm(ref, 2)

	if norm == 0 {
		if dist == 0 {
			return FloorDB
		}

		return math.Inf(1)
	}

	return core.GainToDecibels(dist/norm, FloorDB)
}

// MaxAbsError returns the largest sample difference over the common prefix.
func MaxAbsError(reference, test []float64) float64 {
	n := min(len(reference), len(test))
	if n == 0 {
		return 0
	}

	return floats.Distance(reference[:n], test[:n], math.Inf(1))
}

// Compensator applies AP(lowMid)·AP(midHigh) to a reference stream so that
// it lines up with the band sum of a three-band crossover.
type Compensator struct {
	ap1, ap2 *crossover.Filter
}

// NewCompensator returns an unprepared compensator for the given crossover
// frequencies.
func NewCompensator(lowMid, midHigh float64) *Compensator {
	return &Compensator{
		ap1: crossover.NewFilter(crossover.Allpass, lowMid),
		ap2: crossover.NewFilter(crossover.Allpass, midHigh),
	}
}

// Prepare allocates state for spec.
func (c *Compensator) Prepare(spec core.ProcessSpec) error {
	if err := c.ap1.Prepare(spec); err != nil {
		return fmt.Errorf("null: %w", err)
	}
	if err := c.ap2.Prepare(spec); err != nil {
		return fmt.Errorf("null: %w", err)
	}

	return nil
}

// SetCrossovers follows a crossover move without resetting state.
func (c *Compensator) SetCrossovers(lowMid, midHigh float64) {
	c.ap1.SetCutoff(lowMid)
	c.ap2.SetCutoff(midHigh)
}

// Process filters buf in place.
func (c *Compensator) Process(buf *buffer.Audio) {
	c.ap1.Process(buf)
	c.ap2.Process(buf)
}

// Reset zeroes the allpass state.
func (c *Compensator) Reset() {
	c.ap1.Reset()
	c.ap2.Reset()
}

// Compensate returns x through AP(lowMid)·AP(midHigh) at sampleRate.
func Compensate(x []float64, lowMid, midHigh, sampleRate float64) ([]float64, error) {
	out := append([]float64(nil), x...)

	c := NewCompensator(lowMid, midHigh)
	spec := core.ProcessSpec{SampleRate: sampleRate, MaxBlockSize: max(len(x), 1), NumChannels: 1}
	if err := c.Prepare(spec); err != nil {
		return nil, err
	}

	c.Process(buffer.FromChannels([][]float64{out}))

	return out, nil
}
