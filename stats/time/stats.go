// Package time computes time-domain level statistics of sample streams.
package time

import (
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/tphakala/simd/f64"
)

// Stats summarizes a signal. dB values never go below
// [core.MinusInfinityDB].
type Stats struct {
	Length int
	DC     float64 // mean
	RMS    float64
	Peak   float64 // max |x|
	// CrestFactor is Peak/RMS, 0 for silence.
	CrestFactor float64
	// Clipped counts samples with |x| >= 1.
	Clipped int

	RMSDB         float64
	PeakDB        float64
	CrestFactorDB float64
}

// Calculate returns the statistics of signal.
func Calculate(signal []float64) Stats {
	var s Streaming
	s.Update(signal)

	return s.Result()
}

// Streaming accumulates statistics over successive slices. The zero value
// is ready to use.
type Streaming struct {
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	clipped int
}

// Update adds samples to the running statistics.
func (s *Streaming) Update(samples []float64) {
	if len(samples) == 0 {
		return
	}

	s.sumSq += f64.DotProductUnsafe(samples, samples)

	for _, x := range samples {
		s.sum += x

		a := math.Abs(x)
		if a > s.peak {
			s.peak = a
		}
		if a >= 1 {
			s.clipped++
		}
	}

	s.n += len(samples)
}

// Result returns the statistics of everything passed to Update.
func (s *Streaming) Result() Stats {
	st := Stats{Length: s.n, Peak: s.peak, Clipped: s.clipped}

	if s.n > 0 {
		st.DC = s.sum / float64(s.n)
		st.RMS = math.Sqrt(s.sumSq / float64(s.n))
	}

	if st.RMS > 0 {
		st.CrestFactor = st.Peak / st.RMS
	}

	st.RMSDB = core.GainToDecibels(st.RMS, core.MinusInfinityDB)
	st.PeakDB = core.GainToDecibels(st.Peak, core.MinusInfinityDB)
	st.CrestFactorDB = 0
	if st.CrestFactor > 0 {
		st.CrestFactorDB = 20 * math.Log10(st.CrestFactor)
	}

	return st
}

// Reset clears the accumulated statistics.
func (s *Streaming) Reset() {
	*s = Streaming{}
}
