package spectrum

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cwbudde/algo-mbcomp/dsp/window"
)

func sine(n int, freq, sr, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/sr)
	}

	return out
}

func TestAnalyzerBinCenteredSine(t *testing.T) {
	const sr = 48000.0

	for _, wt := range []window.Type{window.TypeHann, window.TypeBlackmanHarris} {
		t.Run(wt.String(), func(t *testing.T) {
			ring := NewRing(1 << 15)

			a, err := NewAnalyzer(ring, Config{SampleRate: sr, Order: Order2048, Window: wt})
			if err != nil {
				t.Fatal(err)
			}

			bin := 100
			freq := float64(bin) * sr / float64(a.Size())
			ring.Write(sine(a.Size()*2, freq, sr, 0.5))

			ok, err := a.Process()
			if err != nil || !ok {
				t.Fatalf("process ok=%v err=%v", ok, err)
			}

			f := a.Latest()
			if f.PeakBin() != bin {
				t.Fatalf("peak bin=%d want %d", f.PeakBin(), bin)
			}

			want := 20 * math.Log10(0.5)
			if math.Abs(f.DB[bin]-want) > 0.05 {
				t.Fatalf("peak=%.3f dB want %.3f", f.DB[bin], want)
			}

			if math.Abs(f.BinHz(bin)-freq) > 1e-9 {
				t.Fatalf("BinHz=%v want %v", f.BinHz(bin), freq)
			}

			if math.Abs(f.Level(freq)-f.DB[bin]) > 1e-9 {
				t.Fatal("Level at bin centre should equal the bin")
			}
		})
	}
}

func TestAnalyzerSilenceHitsFloor(t *testing.T) {
	ring := NewRing(8192)

	a, err := NewAnalyzer(ring, Config{SampleRate: 44100, Order: Order2048})
	if err != nil {
		t.Fatal(err)
	}

	ring.Write(make([]float64, a.Size()))

	if _, err := a.Process(); err != nil {
		t.Fatal(err)
	}

	f := a.Latest()
	if f == nil {
		t.Fatal("no frame")
	}

	for k, v := range f.DB {
		if v != FloorDB {
			t.Fatalf("bin %d=%v", k, v)
		}
	}
}

func TestAnalyzerHopCount(t *testing.T) {
	ring := NewRing(1 << 15)

	a, err := NewAnalyzer(ring, Config{SampleRate: 48000, Order: Order2048, Overlap: 0.75})
	if err != nil {
		t.Fatal(err)
	}

	if a.Hop() != 512 {
		t.Fatalf("hop=%d", a.Hop())
	}

	ring.Write(make([]float64, a.Size()-1))

	if ok, _ := a.Process(); ok || a.Latest() != nil {
		t.Fatal("frame published before the window filled")
	}

	ring.Write(make([]float64, 1+3*a.Hop()))

	if _, err := a.Process(); err != nil {
		t.Fatal(err)
	}

	// Fill completes at sample 2048, then three more hops.
	if got := a.Latest().Seq; got != 4 {
		t.Fatalf("seq=%d want 4", got)
	}

	a.Reset()

	if a.Latest() != nil {
		t.Fatal("reset should clear the published frame")
	}
}

func TestAnalyzerRejectsBadConfig(t *testing.T) {
	ring := NewRing(16)

	for _, cfg := range []Config{
		{SampleRate: 0},
		{SampleRate: 48000, Order: 10},
		{SampleRate: 48000, Overlap: 0.99},
		{SampleRate: 48000, Smoothing: 1},
	} {
		if _, err := NewAnalyzer(ring, cfg); !errors.Is(err, errInvalidConfig) {
			t.Fatalf("cfg %+v: err=%v", cfg, err)
		}
	}

	if _, err := NewAnalyzer(nil, Config{SampleRate: 48000}); err == nil {
		t.Fatal("nil ring accepted")
	}
}

func TestAnalyzerRunStopsOnCancel(t *testing.T) {
	ring := NewRing(1 << 14)

	a, err := NewAnalyzer(ring, Config{SampleRate: 48000, Order: Order2048, PollInterval: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- a.Run(ctx) }()

	ring.Write(sine(4096, 1000, 48000, 1))

	deadline := time.After(5 * time.Second)
	for a.Latest() == nil {
		select {
		case <-deadline:
			t.Fatal("no frame published")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
}
