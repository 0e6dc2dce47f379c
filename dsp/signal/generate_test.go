package signal

import (
	"math"
	"testing"
)

func newGen(t *testing.T, opts ...Option) *Generator {
	t.Helper()

	g, err := NewGenerator(48000, opts...)
	if err != nil {
		t.Fatal(err)
	}

	return g
}

func TestNewGeneratorRejectsBadRate(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewGenerator(sr); err == nil {
			t.Errorf("NewGenerator(%v) succeeded", sr)
		}
	}
}

func TestSine(t *testing.T) {
	g := newGen(t)

	s, err := g.Sine(1000, 0.5, 480)
	if err != nil {
		t.Fatal(err)
	}

	if len(s) != 480 || s[0] != 0 || math.Abs(s[12]-0.5) > 1e-12 {
		t.Fatalf("len=%d s[0]=%v s[12]=%v", len(s), s[0], s[12])
	}

	if _, err := g.Sine(1000, 1, 0); err == nil {
		t.Fatal("expected error for zero samples")
	}
}

func TestWhiteNoiseDeterministic(t *testing.T) {
	a, b := newGen(t, WithSeed(42)), newGen(t, WithSeed(42))

	n1, err := a.WhiteNoise(1, 64)
	if err != nil {
		t.Fatal(err)
	}
	n2, err := b.WhiteNoise(1, 64)
	if err != nil {
		t.Fatal(err)
	}

	for i := range n1 {
		if n1[i] != n2[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, n1[i], n2[i])
		}
		if math.Abs(n1[i]) > 1 {
			t.Fatalf("sample %d out of range: %v", i, n1[i])
		}
	}

	more, _ := a.WhiteNoise(1, 64)
	if more[0] == n1[0] && more[1] == n1[1] {
		t.Fatal("second call repeated the stream")
	}

	a.Reset()
	again, _ := a.WhiteNoise(1, 64)
	if again[0] != n1[0] {
		t.Fatal("Reset did not rewind")
	}

	if _, err := a.WhiteNoise(-1, 4); err == nil {
		t.Fatal("expected error for negative amplitude")
	}
}

func TestLogSweep(t *testing.T) {
	g := newGen(t)

	s, err := g.LogSweep(20, 20000, 0.25, 48000)
	if err != nil {
		t.Fatal(err)
	}

	peak := 0.0
	for _, v := range s {
		peak = max(peak, math.Abs(v))
	}
	if peak > 0.25+1e-12 || peak < 0.24 {
		t.Fatalf("peak %v", peak)
	}

	if _, err := g.LogSweep(100, 50, 1, 10); err == nil {
		t.Fatal("expected error for descending sweep")
	}
	if _, err := g.LogSweep(20, 30000, 1, 10); err == nil {
		t.Fatal("expected error above Nyquist")
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{0, 0}, 1)
	if err != nil || out[0] != 0 || out[1] != 0 {
		t.Fatalf("silence: %v %v", out, err)
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := Normalize([]float64{1}, -1); err == nil {
		t.Fatal("expected error for negative peak")
	}
}
