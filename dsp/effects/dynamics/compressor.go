package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
)

const (
	defaultCompressorThresholdDB = 0.0
	defaultCompressorRatio       = 3.0
	defaultCompressorAttackMs    = 50.0
	defaultCompressorReleaseMs   = 250.0

	minCompressorRatio = 1.0
)

// CompressorMetrics summarizes the most recent Process call.
type CompressorMetrics struct {
	InputPeak     float64 // largest |x| before compression
	OutputPeak    float64 // largest |y| after compression
	GainReduction float64 // smallest linear gain applied, 1 when idle
}

// Compressor is a multi-channel hard-knee peak compressor.
//
// It is not safe for concurrent use. Setters are meant to be called from the
// audio goroutine between blocks.
type Compressor struct {
	thresholdDB  float64
	threshold    float64
	thresholdInv float64
	ratio        float64
	ratioInv     float64

	env *Ballistics

	metrics CompressorMetrics
}

// NewCompressor returns an unprepared compressor with threshold 0 dB,
// ratio 3:1, attack 50 ms and release 250 ms.
func NewCompressor() *Compressor {
	c := &Compressor{
		env: NewBallistics(defaultCompressorAttackMs, defaultCompressorReleaseMs),
	}
	c.setThreshold(defaultCompressorThresholdDB)
	c.setRatio(defaultCompressorRatio)
	c.metrics.GainReduction = 1

	return c
}

// Prepare allocates per-channel envelopes and resets them.
func (c *Compressor) Prepare(spec core.ProcessSpec) error {
	if err := c.env.Prepare(spec); err != nil {
		return fmt.Errorf("dynamics: compressor: %w", err)
	}

	c.ResetMetrics()

	return nil
}

// SetThreshold sets the threshold in dB.
func (c *Compressor) SetThreshold(dB float64) error {
	if math.IsNaN(dB) || math.IsInf(dB, 0) {
		return fmt.Errorf("dynamics: compressor threshold must be finite: %f", dB)
	}

	if dB != c.thresholdDB {
		c.setThreshold(dB)
	}

	return nil
}

// SetRatio sets the compression ratio. It must be at least 1.
func (c *Compressor) SetRatio(ratio float64) error {
	if ratio < minCompressorRatio || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return fmt.Errorf("dynamics: compressor ratio must be >= %.0f: %f", minCompressorRatio, ratio)
	}

	if ratio != c.ratio {
		c.setRatio(ratio)
	}

	return nil
}

// SetAttack sets the attack time in milliseconds.
func (c *Compressor) SetAttack(ms float64) error {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("dynamics: compressor attack must be non-negative: %f", ms)
	}

	c.env.SetAttack(ms)

	return nil
}

// SetRelease sets the release time in milliseconds.
func (c *Compressor) SetRelease(ms float64) error {
	if ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		return fmt.Errorf("dynamics: compressor release must be non-negative: %f", ms)
	}

	c.env.SetRelease(ms)

	return nil
}

func (c *Compressor) Threshold() float64 { return c.thresholdDB }
func (c *Compressor) Ratio() float64     { return c.ratio }
func (c *Compressor) Attack() float64    { return c.env.Attack() }
func (c *Compressor) Release() float64   { return c.env.Release() }

// Envelope returns the detector level of channel ch.
func (c *Compressor) Envelope(ch int) float64 { return c.env.Envelope(ch) }

// GainForLevel returns the static gain for a detector level.
func (c *Compressor) GainForLevel(env float64) float64 {
	if env < c.threshold {
		return 1
	}

	return math.Pow(env*c.thresholdInv, c.ratioInv-1)
}

// ProcessSample compresses one sample of channel ch.
func (c *Compressor) ProcessSample(ch int, x float64) float64 {
	return c.GainForLevel(c.env.ProcessSample(ch, x)) * x
}

// Process compresses buf in place. Channels beyond the prepared count are
// left untouched.
//
// With bypassed set the samples are not modified, but the detector still
// follows the input so that leaving bypass does not start from a stale
// envelope.
func (c *Compressor) Process(buf *buffer.Audio, bypassed bool) {
	nc := min(c.env.NumChannels(), buf.NumChannels())

	var inPeak, outPeak float64
	minGain := 1.0

	for ch := 0; ch < nc; ch++ {
		samples := buf.Channel(ch)

		if bypassed {
			for _, x := range samples {
				c.env.ProcessSample(ch, x)
				inPeak = math.Max(inPeak, math.Abs(x))
			}

			continue
		}

		for i, x := range samples {
			g := c.GainForLevel(c.env.ProcessSample(ch, x))
			y := g * x
			samples[i] = y

			inPeak = math.Max(inPeak, math.Abs(x))
			outPeak = math.Max(outPeak, math.Abs(y))
			minGain = math.Min(minGain, g)
		}
	}

	if bypassed {
		outPeak = inPeak
	}

	c.env.Snap()
	c.metrics = CompressorMetrics{InputPeak: inPeak, OutputPeak: outPeak, GainReduction: minGain}
}

// Metrics returns the figures of the most recent Process call.
func (c *Compressor) Metrics() CompressorMetrics { return c.metrics }

// ResetMetrics clears the metrics.
func (c *Compressor) ResetMetrics() {
	c.metrics = CompressorMetrics{GainReduction: 1}
}

// Reset clears the detector state.
func (c *Compressor) Reset() {
	c.env.Reset()
	c.ResetMetrics()
}

func (c *Compressor) setThreshold(dB float64) {
	c.thresholdDB = dB
	c.threshold = core.DBToLinear(dB)
	c.thresholdInv = 1 / c.threshold
}

func (c *Compressor) setRatio(ratio float64) {
	c.ratio = ratio
	c.ratioInv = 1 / ratio
}
