package buffer

import (
	"github.com/cwbudde/algo-vecmath"
)

// Audio is a channel-major block of samples (channels × samples).
//
// Storage for buffers created with New is one contiguous backing slice;
// Channel returns a view of it. Buffers created with FromChannels wrap the
// caller's slices without copying.
type Audio struct {
	data       []float64
	channels   [][]float64
	numSamples int
	capacity   int
}

// New returns a zero-filled buffer of the given shape.
func New(numChannels, numSamples int) *Audio {
	a := &Audio{}
	a.SetSize(numChannels, numSamples)
	return a
}

// FromChannels wraps existing channel slices without copying. The sample
// count is the length of the shortest channel.
func FromChannels(channels [][]float64) *Audio {
	n := 0
	for i, ch := range channels {
		if i == 0 || len(ch) < n {
			n = len(ch)
		}
	}

	return &Audio{
		channels:   channels,
		numSamples: n,
		capacity:   n,
	}
}

// SetSize reshapes the buffer and zeroes its contents. It reallocates only
// when the requested shape exceeds the current storage.
func (a *Audio) SetSize(numChannels, numSamples int) {
	if numChannels < 0 {
		numChannels = 0
	}
	if numSamples < 0 {
		numSamples = 0
	}

	if numChannels > cap(a.channels) || numSamples > a.capacity || numChannels*a.capacity > cap(a.data) {
		a.capacity = numSamples
		a.data = make([]float64, numChannels*numSamples)
		a.channels = make([][]float64, numChannels)
	}

	a.channels = a.channels[:numChannels]
	stride := a.capacity
	backing := a.data[:cap(a.data)]
	for ch := range a.channels {
		a.channels[ch] = backing[ch*stride : ch*stride+numSamples : (ch+1)*stride]
	}

	a.numSamples = numSamples
	a.Clear()
}

// SetNumSamples shrinks or regrows the visible length of every channel
// within the allocated capacity. It never allocates; n is clamped to the
// capacity given to New or SetSize.
func (a *Audio) SetNumSamples(n int) {
	if n < 0 {
		n = 0
	}
	if n > a.capacity {
		n = a.capacity
	}

	for ch := range a.channels {
		a.channels[ch] = a.channels[ch][:n:cap(a.channels[ch])]
	}

	a.numSamples = n
}

// NumChannels returns the channel count.
func (a *Audio) NumChannels() int { return len(a.channels) }

// NumSamples returns the number of samples per channel.
func (a *Audio) NumSamples() int { return a.numSamples }

// Capacity returns the maximum samples per channel without reallocation.
func (a *Audio) Capacity() int { return a.capacity }

// Channel returns the samples of channel ch.
func (a *Audio) Channel(ch int) []float64 { return a.channels[ch] }

// Channels returns all channel slices.
func (a *Audio) Channels() [][]float64 { return a.channels }

// Clear zeroes all samples.
func (a *Audio) Clear() {
	for ch := range a.channels {
		clear(a.channels[ch])
	}
}

// ClearChannel zeroes one channel.
func (a *Audio) ClearChannel(ch int) {
	clear(a.channels[ch])
}

// CopyFrom copies src into a. Only the overlapping channels and samples are
// copied.
func (a *Audio) CopyFrom(src *Audio) {
	nc := min(len(a.channels), len(src.channels))
	for ch := 0; ch < nc; ch++ {
		copy(a.channels[ch], src.channels[ch])
	}
}

// AddFrom accumulates src into a, sample by sample, over the overlapping
// channels and samples.
func (a *Audio) AddFrom(src *Audio) {
	nc := min(len(a.channels), len(src.channels))
	n := min(a.numSamples, src.numSamples)
	if n == 0 {
		return
	}

	for ch := 0; ch < nc; ch++ {
		vecmath.AddBlockInPlace(a.channels[ch][:n], src.channels[ch][:n])
	}
}

// ApplyGain multiplies every sample by g.
func (a *Audio) ApplyGain(g float64) {
	if g == 1 || a.numSamples == 0 {
		return
	}

	for ch := range a.channels {
		vecmath.ScaleBlock(a.channels[ch], a.channels[ch], g)
	}
}

// ViewInto points dst at samples [start, end) of a without copying. dst
// reuses its channel table, so repeated calls with the same dst do not
// allocate once it has seen the channel count.
func (a *Audio) ViewInto(dst *Audio, start, end int) {
	a.ViewChannelsInto(dst, len(a.channels), start, end)
}

// ViewChannelsInto is ViewInto restricted to the first numChannels channels
// of a. It does not allocate when dst has reserved at least that many.
func (a *Audio) ViewChannelsInto(dst *Audio, numChannels, start, end int) {
	numChannels = max(0, min(numChannels, len(a.channels)))

	if start < 0 {
		start = 0
	}
	if end > a.numSamples {
		end = a.numSamples
	}
	if end < start {
		end = start
	}

	dst.Reserve(numChannels)
	dst.channels = dst.channels[:numChannels]

	for ch := range dst.channels {
		dst.channels[ch] = a.channels[ch][start:end]
	}

	dst.data = nil
	dst.numSamples = end - start
	dst.capacity = end - start
}

// Reserve grows the channel table so that views of up to numChannels
// channels fit without allocating. Sample storage is not touched.
func (a *Audio) Reserve(numChannels int) {
	if cap(a.channels) < numChannels {
		grown := make([][]float64, len(a.channels), numChannels)
		copy(grown, a.channels)
		a.channels = grown
	}
}

// Clone returns a deep copy with its own storage.
func (a *Audio) Clone() *Audio {
	c := New(len(a.channels), a.numSamples)
	c.CopyFrom(a)
	return c
}
