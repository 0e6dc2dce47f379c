package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudeSquaredMatchesResponse(t *testing.T) {
	for _, f := range []float64{20, 400, 1000, 2000, 12000, 23000} {
		h := lowpassish.Response(f, 48000)
		want := real(h)*real(h) + imag(h)*imag(h)
		if got := lowpassish.MagnitudeSquared(f, 48000); math.Abs(got-want) > 1e-10 {
			t.Fatalf("f=%v: %v, want %v", f, got, want)
		}
	}
}

func TestChainResponseIsProduct(t *testing.T) {
	coeffs := twoSections()
	c := NewChain(coeffs...)

	for _, f := range []float64{100, 1000, 10000} {
		want := coeffs[0].Response(f, 48000) * coeffs[1].Response(f, 48000)
		if got := c.Response(f, 48000); cmplx.Abs(got-want) > 1e-12 {
			t.Fatalf("f=%v: %v, want %v", f, got, want)
		}

		wantDB := 20 * math.Log10(cmplx.Abs(want))
		if got := c.MagnitudeDB(f, 48000); math.Abs(got-wantDB) > 1e-9 {
			t.Fatalf("f=%v: %v dB, want %v", f, got, wantDB)
		}
	}
}

func TestImpulseResponseRestoresState(t *testing.T) {
	c := NewChain(twoSections()...)
	c.ProcessSample(0.7)
	before := c.State()

	ir := c.ImpulseResponse(16)
	if len(ir) != 16 {
		t.Fatalf("len = %d", len(ir))
	}
	if ir[0] != lowpassish.B0*0.1 {
		t.Fatalf("ir[0] = %v, want %v", ir[0], lowpassish.B0*0.1)
	}

	after := c.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("section %d state %v, want %v", i, after[i], before[i])
		}
	}

	if c.ImpulseResponse(0) != nil {
		t.Fatal("ImpulseResponse(0) should be nil")
	}
}
