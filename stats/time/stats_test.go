package time

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/internal/testutil"
)

func TestCalculateSine(t *testing.T) {
	st := Calculate(testutil.DeterministicSine(1000, 48000, 0.5, 48000))

	if math.Abs(st.RMS-0.5/math.Sqrt2) > 1e-9 {
		t.Fatalf("RMS=%v", st.RMS)
	}

	if math.Abs(st.Peak-0.5) > 1e-9 || math.Abs(st.DC) > 1e-9 {
		t.Fatalf("peak=%v dc=%v", st.Peak, st.DC)
	}

	if math.Abs(st.CrestFactorDB-20*math.Log10(math.Sqrt2)) > 1e-6 {
		t.Fatalf("crest=%v dB", st.CrestFactorDB)
	}

	if math.Abs(st.PeakDB-20*math.Log10(0.5)) > 1e-9 || st.Clipped != 0 {
		t.Fatalf("peak=%v dB clipped=%d", st.PeakDB, st.Clipped)
	}
}

func TestCalculateSilenceAndEmpty(t *testing.T) {
	for _, sig := range [][]float64{nil, make([]float64, 32)} {
		st := Calculate(sig)
		if st.RMSDB != core.MinusInfinityDB || st.PeakDB != core.MinusInfinityDB || st.CrestFactor != 0 {
			t.Fatalf("len %d: %+v", len(sig), st)
		}
	}
}

func TestStreamingMatchesBatch(t *testing.T) {
	sig := testutil.DeterministicNoise(3, 1.2, 1000)

	var s Streaming
	for start := 0; start < len(sig); start += 128 {
		s.Update(sig[start:min(start+128, len(sig))])
	}

	got, want := s.Result(), Calculate(sig)

	if got.Length != want.Length || got.Peak != want.Peak || got.Clipped != want.Clipped {
		t.Fatalf("got %+v want %+v", got, want)
	}

	if math.Abs(got.RMS-want.RMS) > 1e-12 || math.Abs(got.DC-want.DC) > 1e-12 {
		t.Fatalf("got %+v want %+v", got, want)
	}

	if want.Clipped == 0 {
		t.Fatal("noise at 1.2 should clip")
	}

	s.Reset()
	if s.Result().Length != 0 {
		t.Fatal("reset kept samples")
	}
}
