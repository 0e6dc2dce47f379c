package mbcomp

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/spectrum"
	"github.com/cwbudde/algo-mbcomp/internal/testutil"
	"github.com/cwbudde/algo-mbcomp/measure/level"
	"github.com/cwbudde/algo-mbcomp/measure/null"
)

const sampleRate = 48000.0

func newEngine(t testing.TB, block, channels int, opts ...Option) *Engine {
	t.Helper()

	e, err := New(newStore(t), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := e.Prepare(sampleRate, block, channels); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	return e
}

// runBlocks feeds src through e in block-sized pieces and returns the
// output.
func runBlocks(e *Engine, src *buffer.Audio, block int) *buffer.Audio {
	out := src.Clone()

	var view buffer.Audio
	for start := 0; start < out.NumSamples(); start += block {
		out.ViewInto(&view, start, start+block)
		e.ProcessBlock(&view)
	}

	return out
}

func TestProcessBeforePrepareIsNoop(t *testing.T) {
	e, err := New(newStore(t))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.NoiseBuffer(1, 0.5, 2, 64)
	buf := in.Clone()
	e.ProcessBlock(buf)
	e.ProcessBlock(buf)

	testutil.RequireIdentical(t, buf, in)

	if e.Underprepared() != 2 || e.Prepared() {
		t.Fatalf("underprepared=%d prepared=%v", e.Underprepared(), e.Prepared())
	}
}

func TestPrepareRejectsBadFormat(t *testing.T) {
	e, err := New(newStore(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := e.Prepare(0, 512, 2); !errors.Is(err, core.ErrInvalidSpec) {
		t.Fatalf("err=%v", err)
	}

	if err := e.Prepare(sampleRate, 0, 2); !errors.Is(err, core.ErrInvalidSpec) {
		t.Fatalf("err=%v", err)
	}

	e2, err := New(newStore(t), WithInputChannels(3))
	if err != nil {
		t.Fatal(err)
	}

	if err := e2.Prepare(sampleRate, 64, 2); err == nil {
		t.Fatal("more inputs than channels accepted")
	}
}

func TestWhiteNoiseReconstruction(t *testing.T) {
	e := newEngine(t, 512, 2)
	s := e.Store()

	for _, b := range Bands {
		s.MustGet(ThresholdName(b)).Set(12)
	}

	in := testutil.NoiseBuffer(11, 0.9, 2, int(sampleRate))
	out := runBlocks(e, in, 512)

	for ch := 0; ch < 2; ch++ {
		ref, err := null.Compensate(in.Channel(ch), 400, 2000, sampleRate)
		if err != nil {
			t.Fatal(err)
		}

		if r := null.ResidualDB(ref, out.Channel(ch)); r > -60 {
			t.Fatalf("channel %d residual %.1f dB", ch, r)
		}
	}
}

func TestCompressionReducesLevel(t *testing.T) {
	e := newEngine(t, 256, 1)
	s := e.Store()

	for _, b := range Bands {
		s.MustGet(ThresholdName(b)).Set(-40)
		s.MustGet(RatioName(b)).Set(float64(len(Ratios) - 1))
	}

	in := testutil.NoiseBuffer(3, 0.9, 1, 24000)
	out := runBlocks(e, in, 256)

	if level.RMSDB(out) > level.RMSDB(in)-10 {
		t.Fatalf("output %.1f dB vs input %.1f dB", level.RMSDB(out), level.RMSDB(in))
	}

	for i, m := range e.Meters() {
		if m.OutputDB >= m.InputDB {
			t.Fatalf("%s band: output %.1f dB not below input %.1f dB", Band(i), m.OutputDB, m.InputDB)
		}
	}
}

func TestPrepareTwiceIsBitIdentical(t *testing.T) {
	e := newEngine(t, 128, 2)
	s := e.Store()
	s.MustGet(ThresholdName(Low)).Set(-30)
	s.MustGet(ThresholdName(High)).Set(-20)
	s.MustGet(GainOutName).Set(-3)

	in := testutil.NoiseBuffer(5, 0.8, 2, 4096)

	if err := e.Prepare(sampleRate, 128, 2); err != nil {
		t.Fatal(err)
	}
	first := runBlocks(e, in, 128)

	if err := e.Prepare(sampleRate, 128, 2); err != nil {
		t.Fatal(err)
	}
	second := runBlocks(e, in, 128)

	testutil.RequireIdentical(t, second, first)
}

func TestOversizedBlocksAreChunked(t *testing.T) {
	in := testutil.NoiseBuffer(9, 0.7, 2, 1000)

	small := newEngine(t, 64, 2)
	small.Store().MustGet(ThresholdName(Mid)).Set(-24)
	big := in.Clone()
	small.ProcessBlock(big)

	ref := newEngine(t, 64, 2)
	ref.Store().MustGet(ThresholdName(Mid)).Set(-24)
	chunked := runBlocks(ref, in, 64)

	testutil.RequireIdentical(t, big, chunked)
}

func TestChannelMismatch(t *testing.T) {
	e := newEngine(t, 64, 1)

	buf := testutil.NoiseBuffer(2, 0.5, 3, 64)
	e.ProcessBlock(buf)

	testutil.RequireFinite(t, buf.Channel(0))
	testutil.RequireSilent(t, buffer.FromChannels(buf.Channels()[1:]))

	narrow := newEngine(t, 64, 2, WithInputChannels(1))
	buf = testutil.NoiseBuffer(4, 0.5, 2, 64)
	narrow.ProcessBlock(buf)
	testutil.RequireSilent(t, buffer.FromChannels(buf.Channels()[1:]))

	fewer := newEngine(t, 64, 4)
	buf = testutil.NoiseBuffer(6, 0.5, 1, 64)
	fewer.ProcessBlock(buf)
	testutil.RequireFinite(t, buf.Channel(0))
}

func TestMuteAndSoloGateOutput(t *testing.T) {
	in := testutil.NoiseBuffer(8, 0.5, 1, 2048)

	e := newEngine(t, 256, 1)
	for _, b := range Bands {
		e.Store().MustGet(MuteName(b)).SetBool(true)
	}
	testutil.RequireSilent(t, runBlocks(e, in, 256))

	plain := runBlocks(newEngine(t, 256, 1), in, 256)

	all := newEngine(t, 256, 1)
	for _, b := range Bands {
		all.Store().MustGet(SoloName(b)).SetBool(true)
		all.Store().MustGet(MuteName(b)).SetBool(true)
	}
	testutil.RequireIdentical(t, runBlocks(all, in, 256), plain)
}

func TestRatioResolution(t *testing.T) {
	e := newEngine(t, 64, 1)

	for _, b := range Bands {
		p := e.Store().MustGet(RatioName(b))

		for i, want := range Ratios {
			p.Set(float64(i))
			e.Band(b).UpdateSettings()

			if got := e.Band(b).Compressor().Ratio(); got != want {
				t.Fatalf("%s band index %d: ratio %v want %v", b, i, got, want)
			}
		}
	}
}

func TestUpdateSettingsReadsOwnParameters(t *testing.T) {
	e := newEngine(t, 64, 1)
	s := e.Store()

	s.MustGet(ThresholdName(Mid)).Set(-12)
	s.MustGet(AttackName(Mid)).Set(20)
	s.MustGet(ReleaseName(Mid)).Set(300)

	mid := e.Band(Mid)
	mid.UpdateSettings()

	c := mid.Compressor()
	if c.Threshold() != -12 || c.Attack() != 20 || c.Release() != 300 {
		t.Fatalf("threshold=%v attack=%v release=%v", c.Threshold(), c.Attack(), c.Release())
	}

	low := e.Band(Low)
	low.UpdateSettings()

	if low.Compressor().Threshold() != 0 || low.Compressor().Attack() != 50 {
		t.Fatal("low band picked up mid band settings")
	}
}

func TestBypassedBandIsUntouched(t *testing.T) {
	s := newStore(t)
	s.MustGet(BypassName(High)).SetBool(true)
	s.MustGet(ThresholdName(High)).Set(-60)

	cb, err := NewCompressorBand(s, High)
	if err != nil {
		t.Fatal(err)
	}

	if err := cb.Prepare(core.ProcessSpec{SampleRate: sampleRate, MaxBlockSize: 256, NumChannels: 2}); err != nil {
		t.Fatal(err)
	}

	cb.UpdateSettings()

	in := testutil.NoiseBuffer(12, 0.9, 2, 256)
	buf := in.Clone()
	cb.Process(buf)

	testutil.RequireIdentical(t, buf, in)

	if !cb.Bypassed() || cb.InputLevelDB() != cb.OutputLevelDB() {
		t.Fatalf("bypassed=%v in=%v out=%v", cb.Bypassed(), cb.InputLevelDB(), cb.OutputLevelDB())
	}
}

func TestMetersStartAtFloor(t *testing.T) {
	e := newEngine(t, 64, 2)

	for _, m := range e.Meters() {
		if m.InputDB != level.FloorDB || m.OutputDB != level.FloorDB {
			t.Fatalf("meters %+v", m)
		}
	}

	e.ProcessBlock(buffer.New(2, 64))

	for _, m := range e.Meters() {
		if m.InputDB != level.FloorDB || m.OutputDB != level.FloorDB {
			t.Fatalf("silence should meter at the floor, got %+v", m)
		}
	}
}

func TestSpectrumTapReceivesChannelZero(t *testing.T) {
	ring := spectrum.NewRing(1024)
	e := newEngine(t, 128, 2, WithSpectrumTap(ring))

	buf := testutil.NoiseBuffer(13, 0.5, 2, 128)
	e.ProcessBlock(buf)

	got := make([]float64, 256)
	n := ring.Read(got)

	testutil.RequireSliceNearlyEqual(t, got[:n], buf.Channel(0), 0)
}

func TestProcessBlockDoesNotAllocate(t *testing.T) {
	ring := spectrum.NewRing(1 << 16)
	e := newEngine(t, 512, 2, WithSpectrumTap(ring), WithGainRampBlocks(2))
	e.Store().MustGet(ThresholdName(Low)).Set(-20)
	e.Store().MustGet(GainInName).Set(3)

	buf := testutil.NoiseBuffer(14, 0.5, 2, 512)
	scratch := make([]float64, 512)

	allocs := testing.AllocsPerRun(50, func() {
		e.ProcessBlock(buf)
		ring.Read(scratch)
	})
	if allocs != 0 {
		t.Fatalf("ProcessBlock allocated %v times", allocs)
	}
}

// mallocsDuring counts heap allocations made by fn, including the first call.
func mallocsDuring(fn func()) uint64 {
	var before, after runtime.MemStats

	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)

	return after.Mallocs - before.Mallocs
}

func TestFirstProcessBlockDoesNotAllocate(t *testing.T) {
	tests := []struct {
		name        string
		bufChannels int
	}{
		{"prepared channels", 2},
		{"extra channels", 3},
		{"fewer channels", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, 512, 2)
			buf := testutil.NoiseBuffer(15, 0.5, tt.bufChannels, 1024)

			if n := mallocsDuring(func() { e.ProcessBlock(buf) }); n != 0 {
				t.Fatalf("first ProcessBlock allocated %d times", n)
			}

			testutil.RequireFinite(t, buf.Channel(0))
			if tt.bufChannels > 2 {
				testutil.RequireSilent(t, buffer.FromChannels(buf.Channels()[2:]))
			}
		})
	}
}

func TestConcurrentControlAndMetering(t *testing.T) {
	e := newEngine(t, 256, 2)
	s := e.Store()

	var stop atomic.Bool
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()

		for i := 0; !stop.Load(); i++ {
			s.MustGet(ThresholdName(Band(i%NumBands))).Set(float64(-(i % 60)))
			s.MustGet(LowMidCrossoverName).Set(float64(100 + i%800))
			_, _ = ApplyIntent(s, Band(i%NumBands), Intent(i%3))
		}
	}()

	go func() {
		defer wg.Done()

		for !stop.Load() {
			for _, m := range e.Meters() {
				if m.InputDB > 100 || m.OutputDB > 100 {
					t.Errorf("implausible meter %+v", m)
					return
				}
			}
		}
	}()

	buf := testutil.NoiseBuffer(15, 0.5, 2, 256)
	for range 200 {
		e.ProcessBlock(buf)
		testutil.RequireFinite(t, buf.Channel(0))
	}

	stop.Store(true)
	wg.Wait()
}

func BenchmarkEngineProcessBlock(b *testing.B) {
	e := newEngine(b, 512, 2)
	e.Store().MustGet(ThresholdName(Mid)).Set(-18)

	buf := testutil.NoiseBuffer(16, 0.5, 2, 512)

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		e.ProcessBlock(buf)
	}
}
