// Package loudness measures programme loudness following ITU-R BS.1770:
// K-weighted mean square over 400 ms blocks, with absolute and relative
// gating for the integrated value.
package loudness

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/design"
)

// FloorLUFS is reported when nothing passes the gates.
const FloorLUFS = -120.0

const (
	// K-weighting stage 1: high shelf; stage 2: highpass.
	shelfFreq   = 1500.0
	shelfGainDB = 4.0
	highpassHz  = 38.0

	blockSeconds = 0.4
	// Gating blocks overlap by 75 %.
	stepSeconds = 0.1

	absoluteGate = -70.0
	relativeGate = -10.0
)

// Meter accumulates momentary and integrated loudness.
type Meter struct {
	sampleRate float64
	channels   int

	weighting []*biquad.Chain
	weighted  []float64

	squares [][]float64 // per-channel ring of the last block's squares
	sums    []float64
	pos     int
	filled  int

	stepLen   int
	sinceStep int

	blocks []float64
	peaks  []float64
}

// NewMeter returns a meter for the given format.
func NewMeter(sampleRate float64, channels int) (*Meter, error) {
	spec := core.ProcessSpec{SampleRate: sampleRate, MaxBlockSize: 1, NumChannels: channels}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("loudness: %w", err)
	}

	shelf := design.HighShelf(shelfFreq, shelfGainDB, design.ButterworthQ, sampleRate)
	hp := design.Highpass(highpassHz, design.ButterworthQ, sampleRate)

	blockLen := max(1, int(math.Round(blockSeconds*sampleRate)))

	m := &Meter{
		sampleRate: sampleRate,
		channels:   channels,
		weighting:  make([]*biquad.Chain, channels),
		squares:    make([][]float64, channels),
		sums:       make([]float64, channels),
		stepLen:    max(1, int(math.Round(stepSeconds*sampleRate))),
		peaks:      make([]float64, channels),
	}

	for ch := range channels {
		m.weighting[ch] = biquad.NewChain(shelf, hp)
		m.squares[ch] = make([]float64, blockLen)
	}

	return m, nil
}

// Reset forgets everything measured so far.
func (m *Meter) Reset() {
	for ch := range m.channels {
		m.weighting[ch].Reset()
		clear(m.squares[ch])
		m.sums[ch] = 0
		m.peaks[ch] = 0
	}

	m.pos = 0
	m.filled = 0
	m.sinceStep = 0
	m.blocks = m.blocks[:0]
}

// Process measures buf. Channels beyond the meter's count are ignored;
// missing channels count as silence.
func (m *Meter) Process(buf *buffer.Audio) {
	n := buf.NumSamples()
	if n == 0 {
		return
	}

	if cap(m.weighted) < n*m.channels {
		m.weighted = make([]float64, n*m.channels)
	}
	w := m.weighted[:n*m.channels]

	for ch := range m.channels {
		dst := w[ch*n : (ch+1)*n]
		if ch >= buf.NumChannels() {
			clear(dst)
			continue
		}

		src := buf.Channel(ch)[:n]
		m.weighting[ch].ProcessBlockTo(dst, src)

		for _, x := range src {
			m.peaks[ch] = max(m.peaks[ch], math.Abs(x))
		}
	}

	blockLen := len(m.squares[0])

	for i := range n {
		for ch := range m.channels {
			y := w[ch*n+i]
			sq := y * y

			ring := m.squares[ch]
			m.sums[ch] += sq - ring[m.pos]
			ring[m.pos] = sq
		}

		m.pos++
		if m.pos == blockLen {
			m.pos = 0
		}

		if m.filled < blockLen {
			m.filled++
		}

		m.sinceStep++
		if m.sinceStep >= m.stepLen {
			m.sinceStep = 0

			if m.filled == blockLen {
				m.blocks = append(m.blocks, m.meanSquare())
			}
		}
	}
}

// meanSquare sums the channel mean squares over the current block. Running
// sums can drift slightly negative; those are treated as silence.
func (m *Meter) meanSquare() float64 {
	blockLen := float64(len(m.squares[0]))

	var total float64
	for _, s := range m.sums {
		total += max(s, 0) / blockLen
	}

	return total
}

// Momentary returns the loudness of the most recent 400 ms in LUFS.
func (m *Meter) Momentary() float64 {
	return toLUFS(m.meanSquare())
}

// Integrated returns the gated loudness of everything measured so far in
// LUFS, or FloorLUFS if no block passes the gates.
func (m *Meter) Integrated() float64 {
	var sum float64
	var count int

	for _, b := range m.blocks {
		if toLUFS(b) > absoluteGate {
			sum += b
			count++
		}
	}

	if count == 0 {
		return FloorLUFS
	}

	gate := toLUFS(sum/float64(count)) + relativeGate

	sum, count = 0, 0
	for _, b := range m.blocks {
		if l := toLUFS(b); l > absoluteGate && l > gate {
			sum += b
			count++
		}
	}

	if count == 0 {
		return FloorLUFS
	}

	return toLUFS(sum / float64(count))
}

// Peaks returns the largest absolute sample per channel.
func (m *Meter) Peaks() []float64 {
	return append([]float64(nil), m.peaks...)
}

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return FloorLUFS
	}

	return max(FloorLUFS, -0.691+10*math.Log10(meanSquare))
}
