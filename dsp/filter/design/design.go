package design

import (
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
)

// ButterworthQ is the quality factor of a second-order Butterworth section.
const ButterworthQ = 1 / math.Sqrt2

// maxFreqRatio keeps designed frequencies strictly below Nyquist.
const maxFreqRatio = 0.49

// Lowpass designs an RBJ lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	b1 := 1 - cosW
	b0 := b1 / 2

	return normalizeBiquad(b0, b1, b0, 1+alpha, -2*cosW, 1-alpha)
}

// Highpass designs an RBJ highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	b0 := (1 + cosW) / 2

	return normalizeBiquad(b0, -(1 + cosW), b0, 1+alpha, -2*cosW, 1-alpha)
}

// Allpass designs an RBJ allpass biquad centered at freq (Hz).
func Allpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{B0: 1}
	}

	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))

	return normalizeBiquad(1-alpha, -2*cosW, 1+alpha, 1+alpha, -2*cosW, 1-alpha)
}

// HighShelf designs an RBJ high shelf that boosts (or cuts) frequencies
// above freq by gainDB.
func HighShelf(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok || math.IsNaN(gainDB) {
		return biquad.Coefficients{B0: 1}
	}

	a := math.Pow(10, gainDB/40)
	cosW := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * normalizedQ(q))
	k := 2 * math.Sqrt(a) * alpha

	return normalizeBiquad(
		a*((a+1)+(a-1)*cosW+k),
		-2*a*((a-1)+(a+1)*cosW),
		a*((a+1)+(a-1)*cosW-k),
		(a+1)-(a-1)*cosW+k,
		2*((a-1)-(a+1)*cosW),
		(a+1)-(a-1)*cosW-k,
	)
}

// LinkwitzRiley4 returns the Butterworth sections that, each applied twice,
// form a fourth-order Linkwitz-Riley lowpass and highpass at freq. Their sum
// equals [Allpass] at the same frequency with [ButterworthQ].
func LinkwitzRiley4(freq, sampleRate float64) (lp, hp biquad.Coefficients) {
	freq = ClampFrequency(freq, sampleRate)
	return Lowpass(freq, ButterworthQ, sampleRate), Highpass(freq, ButterworthQ, sampleRate)
}

// ClampFrequency limits freq to the open interval (0, 0.49·sampleRate).
// NaN maps to the lower bound.
func ClampFrequency(freq, sampleRate float64) float64 {
	hi := maxFreqRatio * sampleRate
	lo := math.Min(1, hi/2)

	switch {
	case math.IsNaN(freq) || freq < lo:
		return lo
	case freq > hi:
		return hi
	default:
		return freq
	}
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return ButterworthQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
