package spectrum

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-mbcomp/dsp/window"
	"github.com/cwbudde/algo-vecmath"
)

// FloorDB is the lowest level a bin can report.
const FloorDB = -130.0

// Order selects the FFT size as a power of two.
type Order int

const (
	Order2048 Order = 11
	Order4096 Order = 12
	Order8192 Order = 13
)

// Size returns 1<<o.
func (o Order) Size() int { return 1 << int(o) }

var errInvalidConfig = errors.New("spectrum: invalid config")

// Config controls an Analyzer.
type Config struct {
	SampleRate float64
	Order      Order
	// Window defaults to Hann.
	Window window.Type
	// Overlap is the fraction of the frame shared between consecutive
	// analyses, in [0, 0.95]. Zero selects 0.5.
	Overlap float64
	// Smoothing blends each new magnitude with the previous frame's, in
	// [0, 1). Zero disables it.
	Smoothing float64
	// PollInterval is how often Run drains the ring. Zero selects 10 ms.
	PollInterval time.Duration
}

// Frame is one published spectrum.
type Frame struct {
	Seq        uint64
	SampleRate float64
	Size       int
	// DB holds Size/2+1 levels in dBFS; a full-scale sinusoid centred on a
	// bin reads 0 dB there.
	DB []float64
}

// BinHz returns the centre frequency of bin k.
func (f *Frame) BinHz(k int) float64 {
	return float64(k) * f.SampleRate / float64(f.Size)
}

// Level returns the level at freq, interpolating linearly between bins.
func (f *Frame) Level(freq float64) float64 {
	if len(f.DB) == 0 {
		return FloorDB
	}

	pos := freq * float64(f.Size) / f.SampleRate
	if pos <= 0 {
		return f.DB[0]
	}

	last := len(f.DB) - 1
	if pos >= float64(last) {
		return f.DB[last]
	}

	k := int(pos)
	frac := pos - float64(k)

	return f.DB[k] + frac*(f.DB[k+1]-f.DB[k])
}

// PeakBin returns the index of the loudest bin.
func (f *Frame) PeakBin() int {
	best := 0
	for k, v := range f.DB {
		if v > f.DB[best] {
			best = k
		}
	}

	return best
}

// Analyzer turns samples from a Ring into spectra. Process and Run must be
// called from one goroutine; Latest may be called from any.
type Analyzer struct {
	ring *Ring
	cfg  Config
	size int
	hop  int

	plan    *algofft.Plan[complex128]
	win     []float64
	winGain float64

	history  []float64
	writePos int
	filled   int
	untilHop int

	chunk []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
	power []float64
	mag   []float64

	seq    uint64
	latest atomic.Pointer[Frame]
}

// NewAnalyzer builds an analyzer that drains ring.
func NewAnalyzer(ring *Ring, cfg Config) (*Analyzer, error) {
	if ring == nil {
		return nil, fmt.Errorf("%w: nil ring", errInvalidConfig)
	}

	if cfg.SampleRate <= 0 || math.IsNaN(cfg.SampleRate) || math.IsInf(cfg.SampleRate, 0) {
		return nil, fmt.Errorf("%w: sample rate %v", errInvalidConfig, cfg.SampleRate)
	}

	if cfg.Order == 0 {
		cfg.Order = Order4096
	}

	if cfg.Order != Order2048 && cfg.Order != Order4096 && cfg.Order != Order8192 {
		return nil, fmt.Errorf("%w: order %d", errInvalidConfig, cfg.Order)
	}

	if cfg.Overlap == 0 {
		cfg.Overlap = 0.5
	}

	if cfg.Overlap < 0 || cfg.Overlap > 0.95 {
		return nil, fmt.Errorf("%w: overlap %v", errInvalidConfig, cfg.Overlap)
	}

	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		return nil, fmt.Errorf("%w: smoothing %v", errInvalidConfig, cfg.Smoothing)
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Millisecond
	}

	size := cfg.Order.Size()

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	win := window.Generate(cfg.Window, size, window.WithPeriodic())

	gain, err := window.CoherentGain(win)
	if err != nil {
		return nil, fmt.Errorf("spectrum: window: %w", err)
	}

	hop := max(1, int(math.Round(float64(size)*(1-cfg.Overlap))))
	bins := size/2 + 1

	return &Analyzer{
		ring:     ring,
		cfg:      cfg,
		size:     size,
		hop:      hop,
		plan:     plan,
		win:      win,
		winGain:  gain,
		history:  make([]float64, size),
		untilHop: hop,
		chunk:    make([]float64, hop),
		in:       make([]complex128, size),
		out:      make([]complex128, size),
		re:       make([]float64, bins),
		im:       make([]float64, bins),
		power:    make([]float64, bins),
		mag:      make([]float64, bins),
	}, nil
}

// Size returns the FFT size.
func (a *Analyzer) Size() int { return a.size }

// Hop returns the number of samples between frames.
func (a *Analyzer) Hop() int { return a.hop }

// Latest returns the most recent frame, or nil before the first one. The
// returned frame is never modified afterwards.
func (a *Analyzer) Latest() *Frame { return a.latest.Load() }

// Process drains the ring and publishes a frame for every completed hop
// once the window has filled. It reports whether any frame was published.
func (a *Analyzer) Process() (bool, error) {
	published := false

	for {
		n := a.ring.Read(a.chunk)
		if n == 0 {
			return published, nil
		}

		for _, x := range a.chunk[:n] {
			a.history[a.writePos] = x

			a.writePos++
			if a.writePos == a.size {
				a.writePos = 0
			}

			if a.filled < a.size {
				a.filled++
			}

			a.untilHop--
			if a.untilHop > 0 {
				continue
			}

			a.untilHop = a.hop

			if a.filled < a.size {
				continue
			}

			if err := a.analyze(); err != nil {
				return published, err
			}

			published = true
		}
	}
}

// Run calls Process every poll interval until ctx is done.
func (a *Analyzer) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := a.Process(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Reset forgets buffered history and the published frame.
func (a *Analyzer) Reset() {
	clear(a.history)
	clear(a.mag)
	a.writePos = 0
	a.filled = 0
	a.untilHop = a.hop
	a.latest.Store(nil)
}

func (a *Analyzer) analyze() error {
	// Oldest sample sits at writePos.
	for i := range a.size {
		idx := a.writePos + i
		if idx >= a.size {
			idx -= a.size
		}

		a.in[i] = complex(a.history[idx]*a.win[i], 0)
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return fmt.Errorf("spectrum: fft: %w", err)
	}

	bins := len(a.power)
	for k := range bins {
		a.re[k] = real(a.out[k])
		a.im[k] = imag(a.out[k])
	}

	vecmath.Power(a.power, a.re, a.im)

	norm := float64(a.size) * a.winGain
	smooth := a.cfg.Smoothing
	prev := a.latest.Load()

	db := make([]float64, bins)
	for k := range bins {
		mag := math.Sqrt(a.power[k]) / norm
		if k > 0 && k < bins-1 {
			mag *= 2
		}

		if smooth > 0 && prev != nil {
			mag = smooth*a.mag[k] + (1-smooth)*mag
		}

		a.mag[k] = mag

		if mag <= 0 {
			db[k] = FloorDB
			continue
		}

		db[k] = max(FloorDB, 20*math.Log10(mag))
	}

	a.seq++
	a.latest.Store(&Frame{
		Seq:        a.seq,
		SampleRate: a.cfg.SampleRate,
		Size:       a.size,
		DB:         db,
	})

	return nil
}
