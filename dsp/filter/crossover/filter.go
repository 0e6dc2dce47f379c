package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/design"
)

// Type selects the response of a [Filter].
type Type int

const (
	// Lowpass is two cascaded Butterworth lowpass sections.
	Lowpass Type = iota
	// Highpass is two cascaded Butterworth highpass sections.
	Highpass
	// Allpass is a single second-order allpass, equal to Lowpass + Highpass.
	Allpass
)

func (t Type) String() string {
	switch t {
	case Lowpass:
		return "lowpass"
	case Highpass:
		return "highpass"
	case Allpass:
		return "allpass"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Filter is a multi-channel fourth-order Linkwitz-Riley filter.
type Filter struct {
	typ        Type
	cutoff     float64
	sampleRate float64
	coeffs     biquad.Coefficients
	channels   []biquad.Chain
}

// NewFilter returns an unprepared filter of the given type and cutoff.
func NewFilter(typ Type, cutoffHz float64) *Filter {
	return &Filter{typ: typ, cutoff: cutoffHz}
}

// Prepare allocates per-channel state for spec and resets it.
func (f *Filter) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("crossover: %w", err)
	}

	f.sampleRate = spec.SampleRate
	f.coeffs = f.design(f.cutoff)

	f.channels = make([]biquad.Chain, spec.NumChannels)
	for ch := range f.channels {
		f.apply(&f.channels[ch])
	}

	return nil
}

// SetCutoff moves the cutoff. Filter state is kept; the call does not
// allocate.
func (f *Filter) SetCutoff(hz float64) {
	if hz == f.cutoff {
		return
	}

	f.cutoff = hz
	if f.sampleRate == 0 {
		return
	}

	f.coeffs = f.design(hz)
	for ch := range f.channels {
		f.apply(&f.channels[ch])
	}
}

// Cutoff returns the current cutoff in Hz.
func (f *Filter) Cutoff() float64 { return f.cutoff }

// Type returns the filter response type.
func (f *Filter) Type() Type { return f.typ }

// Process filters buf in place. Channels beyond the prepared count are left
// untouched.
func (f *Filter) Process(buf *buffer.Audio) {
	nc := min(len(f.channels), buf.NumChannels())
	for ch := 0; ch < nc; ch++ {
		f.channels[ch].ProcessBlock(buf.Channel(ch))
	}
}

// Reset zeroes the state of every channel.
func (f *Filter) Reset() {
	for ch := range f.channels {
		f.channels[ch].Reset()
	}
}

// Chain returns the biquad cascade of channel ch, for response analysis.
func (f *Filter) Chain(ch int) *biquad.Chain { return &f.channels[ch] }

func (f *Filter) design(hz float64) biquad.Coefficients {
	lp, hp := design.LinkwitzRiley4(hz, f.sampleRate)

	switch f.typ {
	case Lowpass:
		return lp
	case Highpass:
		return hp
	default:
		return design.Allpass(design.ClampFrequency(hz, f.sampleRate), design.ButterworthQ, f.sampleRate)
	}
}

func (f *Filter) apply(c *biquad.Chain) {
	if f.typ == Allpass {
		c.SetCoefficients(f.coeffs)
		return
	}

	c.SetCoefficients(f.coeffs, f.coeffs)
}
