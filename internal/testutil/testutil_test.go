package testutil

import (
	"math"
	"testing"
)

func TestDeterministicNoiseReproducible(t *testing.T) {
	a := DeterministicNoise(42, 0.5, 64)
	b := DeterministicNoise(42, 0.5, 64)
	c := DeterministicNoise(43, 0.5, 64)

	RequireSliceNearlyEqual(t, a, b, 0)

	same := true
	for i := range a {
		if a[i] < -0.5 || a[i] >= 0.5 {
			t.Fatalf("a[%d]=%v out of range", i, a[i])
		}
		if a[i] != c[i] {
			same = false
		}
	}
	if same {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestImpulseAndDC(t *testing.T) {
	RequireSliceNearlyEqual(t, Impulse(4, 1), []float64{0, 1, 0, 0}, 0)
	RequireSliceNearlyEqual(t, Impulse(4, 9), []float64{0, 0, 0, 0}, 0)
	RequireSliceNearlyEqual(t, DC(0.25, 3), []float64{0.25, 0.25, 0.25}, 0)
}

func TestDeterministicSineStartsAtZero(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1, 48)
	if math.Abs(s[0]) > 1e-15 || math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[0]=%v s[12]=%v", s[0], s[12])
	}
}

func TestBuffers(t *testing.T) {
	nb := NoiseBuffer(7, 1, 2, 32)
	if nb.NumChannels() != 2 || nb.NumSamples() != 32 {
		t.Fatalf("shape %dx%d", nb.NumChannels(), nb.NumSamples())
	}
	RequireSliceNearlyEqual(t, nb.Channel(1), DeterministicNoise(8, 1, 32), 0)

	RequireIdentical(t, nb, nb.Clone())

	dc := DCBuffer(5, 0, 0)
	RequireSilent(t, dc)
	RequireFinite(t, nb.Channel(0))
}
