package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
)

// RequireSliceNearlyEqual fails t if the slices differ in length or any pair
// differs by more than eps.
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t on any NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireIdentical fails t unless both buffers have the same shape and
// bit-identical samples.
func RequireIdentical(t testing.TB, got, want *buffer.Audio) {
	t.Helper()
	if got.NumChannels() != want.NumChannels() || got.NumSamples() != want.NumSamples() {
		t.Fatalf("shape mismatch: got %dx%d, want %dx%d",
			got.NumChannels(), got.NumSamples(), want.NumChannels(), want.NumSamples())
	}
	for ch := 0; ch < got.NumChannels(); ch++ {
		g, w := got.Channel(ch), want.Channel(ch)
		for i := range g {
			if math.Float64bits(g[i]) != math.Float64bits(w[i]) {
				t.Fatalf("channel %d index %d: got %v, want %v", ch, i, g[i], w[i])
			}
		}
	}
}

// RequireSilent fails t if any sample of buf is non-zero.
func RequireSilent(t testing.TB, buf *buffer.Audio) {
	t.Helper()
	for ch := 0; ch < buf.NumChannels(); ch++ {
		for i, v := range buf.Channel(ch) {
			if v != 0 {
				t.Fatalf("channel %d index %d: got %v, want 0", ch, i, v)
			}
		}
	}
}
