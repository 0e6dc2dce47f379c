package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
)

// Default crossover frequencies in Hz.
const (
	DefaultLowMid  = 400.0
	DefaultMidHigh = 2000.0
)

// Network is a three-band Linkwitz-Riley crossover.
//
// Low-mid is not required to be below mid-high. Inverted settings still
// produce a valid, if unusual, split.
type Network struct {
	lp1, hp1, ap2 *Filter
	lp2, hp2      *Filter

	lowMid, midHigh float64
}

// NewNetwork returns an unprepared network at the default frequencies.
func NewNetwork() *Network {
	return &Network{
		lp1:     NewFilter(Lowpass, DefaultLowMid),
		hp1:     NewFilter(Highpass, DefaultLowMid),
		ap2:     NewFilter(Allpass, DefaultMidHigh),
		lp2:     NewFilter(Lowpass, DefaultMidHigh),
		hp2:     NewFilter(Highpass, DefaultMidHigh),
		lowMid:  DefaultLowMid,
		midHigh: DefaultMidHigh,
	}
}

// Prepare allocates state for every filter and resets it.
func (n *Network) Prepare(spec core.ProcessSpec) error {
	for _, f := range n.filters() {
		if err := f.Prepare(spec); err != nil {
			return fmt.Errorf("crossover: prepare %s at %.1f Hz: %w", f.Type(), f.Cutoff(), err)
		}
	}

	return nil
}

// SetCrossovers sets both crossover frequencies. Filters sharing a
// frequency are updated together, so they stay matched; their state is
// kept.
func (n *Network) SetCrossovers(lowMid, midHigh float64) {
	n.lowMid, n.midHigh = lowMid, midHigh

	n.lp1.SetCutoff(lowMid)
	n.hp1.SetCutoff(lowMid)

	n.ap2.SetCutoff(midHigh)
	n.lp2.SetCutoff(midHigh)
	n.hp2.SetCutoff(midHigh)
}

// Crossovers returns the current low-mid and mid-high frequencies.
func (n *Network) Crossovers() (lowMid, midHigh float64) {
	return n.lowMid, n.midHigh
}

// Split writes the three bands of in into low, mid and high. All buffers
// must share the prepared shape. At most one of the outputs may be the same
// buffer as in.
func (n *Network) Split(in, low, mid, high *buffer.Audio) {
	if low != in {
		low.CopyFrom(in)
	}
	if mid != in {
		mid.CopyFrom(in)
	}

	n.SplitInPlace(low, mid, high)
}

// SplitInPlace splits when low and mid already hold the input. high is
// overwritten.
func (n *Network) SplitInPlace(low, mid, high *buffer.Audio) {
	n.lp1.Process(low)
	n.ap2.Process(low)

	n.hp1.Process(mid)
	high.CopyFrom(mid)

	n.lp2.Process(mid)
	n.hp2.Process(high)
}

// Reset zeroes the state of all five filters.
func (n *Network) Reset() {
	for _, f := range n.filters() {
		f.Reset()
	}
}

func (n *Network) filters() [5]*Filter {
	return [5]*Filter{n.lp1, n.hp1, n.ap2, n.lp2, n.hp2}
}
