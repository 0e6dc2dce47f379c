package mbcomp

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/crossover"
	"github.com/cwbudde/algo-mbcomp/params"
)

var errNilStore = errors.New("mbcomp: nil parameter store")

// BandLevels is a metering snapshot of one band.
type BandLevels struct {
	InputDB  float64
	OutputDB float64
}

// Engine is the three-band processor.
//
// Prepare and ProcessBlock belong to the audio goroutine. Parameter writes
// through the store and reads of Meters, Band levels and Underprepared are
// safe from any goroutine.
type Engine struct {
	store *params.Store
	cfg   config

	bands   [NumBands]*CompressorBand
	lowMid  *params.Parameter
	midHigh *params.Parameter
	gainIn  gainStage
	gainOut gainStage

	network *crossover.Network
	scratch [NumBands]*buffer.Audio
	chunk   buffer.Audio

	spec          core.ProcessSpec
	inputChannels int
	prepared      bool

	underprepared atomic.Uint64
}

// New binds an engine to store, which must contain every row of [Layout].
func New(store *params.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, errNilStore
	}

	e := &Engine{
		store:   store,
		cfg:     applyOptions(opts...),
		network: crossover.NewNetwork(),
	}

	for _, b := range Bands {
		cb, err := NewCompressorBand(store, b)
		if err != nil {
			return nil, err
		}

		e.bands[b] = cb
		e.scratch[b] = buffer.New(0, 0)
	}

	floats := []struct {
		dst  **params.Parameter
		name string
	}{
		{&e.lowMid, LowMidCrossoverName},
		{&e.midHigh, MidHighCrossoverName},
		{&e.gainIn.param, GainInName},
		{&e.gainOut.param, GainOutName},
	}

	for _, f := range floats {
		p, err := store.LookupKind(f.name, params.KindFloat)
		if err != nil {
			return nil, fmt.Errorf("mbcomp: %w", err)
		}

		*f.dst = p
	}

	return e, nil
}

// Store returns the parameter store the engine reads.
func (e *Engine) Store() *params.Store { return e.store }

// Prepare sizes every buffer and filter for the given format and resets all
// processing state. It is the only method besides New that allocates.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize, numChannels int) error {
	spec := core.ProcessSpec{SampleRate: sampleRate, MaxBlockSize: maxBlockSize, NumChannels: numChannels}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("mbcomp: prepare: %w", err)
	}

	inputs := e.cfg.inputChannels
	if inputs == 0 {
		inputs = numChannels
	}

	if inputs > numChannels {
		return fmt.Errorf("mbcomp: prepare: %d input channels exceed %d channels", inputs, numChannels)
	}

	e.prepared = false

	for _, s := range e.scratch {
		s.SetSize(numChannels, maxBlockSize)
	}
	e.chunk.Reserve(numChannels)

	if err := e.network.Prepare(spec); err != nil {
		return fmt.Errorf("mbcomp: prepare: %w", err)
	}

	e.network.SetCrossovers(e.lowMid.Get(), e.midHigh.Get())

	for _, b := range e.bands {
		if err := b.Prepare(spec); err != nil {
			return fmt.Errorf("mbcomp: prepare: %w", err)
		}
	}

	ramp := maxBlockSize * e.cfg.rampBlocks
	e.gainIn.prepare(ramp)
	e.gainOut.prepare(ramp)

	e.spec = spec
	e.inputChannels = inputs
	e.prepared = true

	return nil
}

// Spec returns the prepared format. It is the zero value before Prepare.
func (e *Engine) Spec() core.ProcessSpec { return e.spec }

// Prepared reports whether Prepare has succeeded.
func (e *Engine) Prepared() bool { return e.prepared }

// Underprepared returns how many blocks arrived before Prepare and were
// left untouched.
func (e *Engine) Underprepared() uint64 { return e.underprepared.Load() }

// Reset clears filter, detector, meter and gain ramp state without
// changing the format.
func (e *Engine) Reset() {
	e.network.Reset()

	for _, b := range e.bands {
		b.Reset()
	}

	if e.prepared {
		e.gainIn.reset()
		e.gainOut.reset()
	}
}

// ProcessBlock processes buf in place. Blocks longer than the prepared
// maximum are processed in maximum-sized chunks. Channels from the input
// channel count on are zeroed before processing, and channels beyond the
// prepared count come out silent.
func (e *Engine) ProcessBlock(buf *buffer.Audio) {
	if !e.prepared {
		e.underprepared.Add(1)
		return
	}

	for ch := e.inputChannels; ch < buf.NumChannels(); ch++ {
		buf.ClearChannel(ch)
	}

	n := buf.NumSamples()
	if n == 0 || buf.NumChannels() == 0 {
		return
	}

	// Channels past the prepared count were cleared above and stay out of
	// the view.
	step := e.spec.MaxBlockSize
	for start := 0; start < n; start += step {
		buf.ViewChannelsInto(&e.chunk, e.spec.NumChannels, start, min(start+step, n))
		e.processChunk(&e.chunk)
	}
}

func (e *Engine) processChunk(x *buffer.Audio) {
	n := x.NumSamples()

	for _, b := range e.bands {
		b.UpdateSettings()
	}

	e.gainIn.process(x)

	nc := min(x.NumChannels(), e.spec.NumChannels)
	for _, s := range e.scratch {
		s.SetNumSamples(n)
		s.CopyFrom(x)

		for ch := nc; ch < s.NumChannels(); ch++ {
			s.ClearChannel(ch)
		}
	}

	low, mid, high := e.scratch[Low], e.scratch[Mid], e.scratch[High]

	e.network.SetCrossovers(e.lowMid.Get(), e.midHigh.Get())
	e.network.SplitInPlace(low, mid, high)

	var solo, mute [NumBands]bool
	for i, b := range e.bands {
		b.Process(e.scratch[i])
		solo[i] = b.Soloed()
		mute[i] = b.Muted()
	}

	mixBands(x, &e.scratch, Contributing(solo, mute))

	e.gainOut.process(x)

	if e.cfg.tap != nil {
		e.cfg.tap.Write(x.Channel(0)[:n])
	}
}

// Band returns the compressor band b.
func (e *Engine) Band(b Band) *CompressorBand { return e.bands[b] }

// Meters returns the latest pre- and post-compression RMS of every band.
func (e *Engine) Meters() [NumBands]BandLevels {
	var out [NumBands]BandLevels
	for i, b := range e.bands {
		out[i] = BandLevels{InputDB: b.InputLevelDB(), OutputDB: b.OutputLevelDB()}
	}

	return out
}
