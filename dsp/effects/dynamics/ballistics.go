package dynamics

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/core"
)

// Ballistics follows the peak level of each channel.
//
// Each sample moves the envelope towards |x| with
//
//	env = |x| + cte·(env - |x|)
//
// using the attack constant while the level rises and the release constant
// while it falls.
type Ballistics struct {
	attackMs   float64
	releaseMs  float64
	sampleRate float64

	cteAttack  float64
	cteRelease float64

	state []float64
}

// NewBallistics returns an unprepared follower with the given times.
func NewBallistics(attackMs, releaseMs float64) *Ballistics {
	return &Ballistics{attackMs: attackMs, releaseMs: releaseMs}
}

// Prepare allocates one envelope per channel and resets them.
func (b *Ballistics) Prepare(spec core.ProcessSpec) error {
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("dynamics: ballistics: %w", err)
	}

	b.sampleRate = spec.SampleRate
	b.state = make([]float64, spec.NumChannels)
	b.update()

	return nil
}

// SetAttack sets the attack time in milliseconds.
func (b *Ballistics) SetAttack(ms float64) {
	if ms == b.attackMs {
		return
	}

	b.attackMs = ms
	b.cteAttack = timeConstant(ms, b.sampleRate)
}

// SetRelease sets the release time in milliseconds.
func (b *Ballistics) SetRelease(ms float64) {
	if ms == b.releaseMs {
		return
	}

	b.releaseMs = ms
	b.cteRelease = timeConstant(ms, b.sampleRate)
}

// Attack returns the attack time in milliseconds.
func (b *Ballistics) Attack() float64 { return b.attackMs }

// Release returns the release time in milliseconds.
func (b *Ballistics) Release() float64 { return b.releaseMs }

// ProcessSample advances the envelope of channel ch by one sample and
// returns it.
func (b *Ballistics) ProcessSample(ch int, x float64) float64 {
	in := math.Abs(x)
	prev := b.state[ch]

	cte := b.cteRelease
	if in > prev {
		cte = b.cteAttack
	}

	env := in + cte*(prev-in)
	b.state[ch] = env

	return env
}

// Envelope returns the current envelope of channel ch.
func (b *Ballistics) Envelope(ch int) float64 { return b.state[ch] }

// NumChannels returns the prepared channel count.
func (b *Ballistics) NumChannels() int { return len(b.state) }

// Snap flushes denormal envelopes to zero. Call it once per block.
func (b *Ballistics) Snap() {
	for ch := range b.state {
		b.state[ch] = core.FlushDenormals(b.state[ch])
	}
}

// Reset zeroes every envelope.
func (b *Ballistics) Reset() {
	clear(b.state)
}

func (b *Ballistics) update() {
	b.cteAttack = timeConstant(b.attackMs, b.sampleRate)
	b.cteRelease = timeConstant(b.releaseMs, b.sampleRate)
}

// timeConstant maps a time in ms to the one-pole feedback coefficient.
// Times below one microsecond give an instantaneous follower.
func timeConstant(ms, sampleRate float64) float64 {
	if ms < 1e-3 || sampleRate <= 0 {
		return 0
	}

	return math.Exp(-2 * math.Pi * 1000 / (sampleRate * ms))
}
