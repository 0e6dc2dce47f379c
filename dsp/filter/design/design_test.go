package design

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
)

const sr = 48000.0

func TestLinkwitzRiley4CrossoverPoint(t *testing.T) {
	for _, fc := range []float64{20, 400, 2000, 15000} {
		lp, hp := LinkwitzRiley4(fc, sr)

		lpDB := 2 * lp.MagnitudeDB(fc, sr)
		hpDB := 2 * hp.MagnitudeDB(fc, sr)

		if math.Abs(lpDB+6.0206) > 1e-3 {
			t.Fatalf("fc=%v: LP at crossover %.4f dB, want -6.02", fc, lpDB)
		}
		if math.Abs(hpDB+6.0206) > 1e-3 {
			t.Fatalf("fc=%v: HP at crossover %.4f dB, want -6.02", fc, hpDB)
		}
	}
}

func TestLinkwitzRiley4SumsToAllpass(t *testing.T) {
	for _, fc := range []float64{400, 2000} {
		lp, hp := LinkwitzRiley4(fc, sr)
		ap := Allpass(fc, ButterworthQ, sr)

		for f := 10.0; f < sr/2; f *= 1.25 {
			hl := lp.Response(f, sr)
			hh := hp.Response(f, sr)
			sum := hl*hl + hh*hh

			if d := cmplx.Abs(sum - ap.Response(f, sr)); d > 1e-9 {
				t.Fatalf("fc=%v f=%.1f: |LP²+HP²-AP| = %g", fc, f, d)
			}
		}
	}
}

func TestAllpassIsFlat(t *testing.T) {
	ap := Allpass(1000, ButterworthQ, sr)
	for f := 10.0; f < sr/2; f *= 2 {
		if db := ap.MagnitudeDB(f, sr); math.Abs(db) > 1e-9 {
			t.Fatalf("f=%v: %g dB, want 0", f, db)
		}
	}
}

func TestShapes(t *testing.T) {
	lp := Lowpass(1000, ButterworthQ, sr)
	hp := Highpass(1000, ButterworthQ, sr)

	if !(lp.MagnitudeDB(100, sr) > lp.MagnitudeDB(10000, sr)) {
		t.Fatal("lowpass does not attenuate highs")
	}
	if !(hp.MagnitudeDB(10000, sr) > hp.MagnitudeDB(100, sr)) {
		t.Fatal("highpass does not attenuate lows")
	}
	if db := lp.MagnitudeDB(1000, sr); math.Abs(db+3.0103) > 1e-3 {
		t.Fatalf("Butterworth LP at cutoff %.4f dB, want -3.01", db)
	}
}

func TestInvalidInputs(t *testing.T) {
	if got := Lowpass(30000, ButterworthQ, sr); got != (biquad.Coefficients{}) {
		t.Fatalf("above Nyquist: %+v, want zero", got)
	}
	if got := Highpass(1000, ButterworthQ, 0); got != (biquad.Coefficients{}) {
		t.Fatalf("zero sample rate: %+v, want zero", got)
	}
	if got := Allpass(math.NaN(), ButterworthQ, sr); got != (biquad.Coefficients{B0: 1}) {
		t.Fatalf("NaN allpass: %+v, want identity", got)
	}

	// Non-positive Q falls back to Butterworth.
	if Lowpass(1000, -1, sr) != Lowpass(1000, ButterworthQ, sr) {
		t.Fatal("invalid Q not normalized")
	}
}

func TestClampFrequency(t *testing.T) {
	tests := []struct {
		in, sr, want float64
	}{
		{400, 48000, 400},
		{20000, 32000, 0.49 * 32000},
		{0, 48000, 1},
		{math.NaN(), 48000, 1},
	}

	for _, tc := range tests {
		if got := ClampFrequency(tc.in, tc.sr); got != tc.want {
			t.Fatalf("ClampFrequency(%v, %v) = %v, want %v", tc.in, tc.sr, got, tc.want)
		}
	}

	lp, _ := LinkwitzRiley4(20000, 32000)
	if lp == (biquad.Coefficients{}) {
		t.Fatal("LinkwitzRiley4 should clamp instead of failing above Nyquist")
	}
}

func TestHighShelf(t *testing.T) {
	const sr = 48000.0

	c := HighShelf(1500, 4, ButterworthQ, sr)

	if db := c.MagnitudeDB(10, sr); math.Abs(db) > 0.05 {
		t.Fatalf("DC region gain %.3f dB, want 0", db)
	}

	if db := c.MagnitudeDB(20000, sr); math.Abs(db-4) > 0.1 {
		t.Fatalf("shelf gain %.3f dB, want 4", db)
	}

	if db := c.MagnitudeDB(1500, sr); math.Abs(db-2) > 0.1 {
		t.Fatalf("midpoint gain %.3f dB, want 2", db)
	}

	if got := HighShelf(0, 4, ButterworthQ, sr); got != (biquad.Coefficients{B0: 1}) {
		t.Fatalf("invalid shelf = %+v, want identity", got)
	}
}
