package level

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/tphakala/simd/f64"
)

// FloorDB is the level reported for silence.
const FloorDB = core.MinusInfinityDB

// RMS returns sqrt(Σx² / (channels·samples)) over the whole buffer. An empty
// buffer has RMS 0.
func RMS(buf *buffer.Audio) float64 {
	n := buf.NumSamples()
	nc := buf.NumChannels()
	if n == 0 || nc == 0 {
		return 0
	}

	var sum float64
	for ch := 0; ch < nc; ch++ {
		x := buf.Channel(ch)[:n]
		sum += f64.DotProductUnsafe(x, x)
	}

	return math.Sqrt(sum / float64(n*nc))
}

// RMSDB returns [RMS] in dB, never below [FloorDB].
func RMSDB(buf *buffer.Audio) float64 {
	return core.GainToDecibels(RMS(buf), FloorDB)
}

// Atomic holds a float64 reading that one goroutine stores and others load.
// The zero value reads 0; call Reset to start at the floor.
type Atomic struct {
	bits atomic.Uint64
}

// Store publishes v.
func (a *Atomic) Store(v float64) {
	a.bits.Store(math.Float64bits(v))
}

// Load returns the most recent value.
func (a *Atomic) Load() float64 {
	return math.Float64frombits(a.bits.Load())
}

// Reset stores [FloorDB].
func (a *Atomic) Reset() {
	a.Store(FloorDB)
}
