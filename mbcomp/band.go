package mbcomp

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-mbcomp/measure/level"
	"github.com/cwbudde/algo-mbcomp/params"
)

// CompressorBand is the per-band dynamics stage: a compressor bound to its
// band's parameters plus pre- and post-compression RMS meters.
type CompressorBand struct {
	band Band

	attack    *params.Parameter
	release   *params.Parameter
	threshold *params.Parameter
	ratio     *params.Parameter
	bypassed  *params.Parameter
	mute      *params.Parameter
	solo      *params.Parameter

	comp *dynamics.Compressor

	inputDB  level.Atomic
	outputDB level.Atomic
}

// NewCompressorBand binds the parameters of b in store. It fails if any of
// them is missing or has the wrong kind.
func NewCompressorBand(store *params.Store, b Band) (*CompressorBand, error) {
	cb := &CompressorBand{band: b, comp: dynamics.NewCompressor()}

	bindings := []struct {
		dst  **params.Parameter
		name string
		kind params.Kind
	}{
		{&cb.attack, AttackName(b), params.KindFloat},
		{&cb.release, ReleaseName(b), params.KindFloat},
		{&cb.threshold, ThresholdName(b), params.KindFloat},
		{&cb.ratio, RatioName(b), params.KindChoice},
		{&cb.bypassed, BypassName(b), params.KindBool},
		{&cb.mute, MuteName(b), params.KindBool},
		{&cb.solo, SoloName(b), params.KindBool},
	}

	for _, bind := range bindings {
		p, err := store.LookupKind(bind.name, bind.kind)
		if err != nil {
			return nil, fmt.Errorf("mbcomp: %s band: %w", b, err)
		}

		*bind.dst = p
	}

	cb.inputDB.Reset()
	cb.outputDB.Reset()

	return cb, nil
}

// Band returns which band this is.
func (cb *CompressorBand) Band() Band { return cb.band }

// Prepare sizes the compressor for spec and resets both meters.
func (cb *CompressorBand) Prepare(spec core.ProcessSpec) error {
	if err := cb.comp.Prepare(spec); err != nil {
		return fmt.Errorf("mbcomp: %s band: %w", cb.band, err)
	}

	cb.inputDB.Reset()
	cb.outputDB.Reset()

	return nil
}

// UpdateSettings copies the current parameter values into the compressor.
func (cb *CompressorBand) UpdateSettings() {
	// Values come out of the store already clamped, so the setters cannot
	// fail here.
	_ = cb.comp.SetAttack(cb.attack.Get())
	_ = cb.comp.SetRelease(cb.release.Get())
	_ = cb.comp.SetThreshold(cb.threshold.Get())
	_ = cb.comp.SetRatio(cb.ratio.ChoiceValue())
}

// Process compresses buf in place and publishes its RMS before and after.
func (cb *CompressorBand) Process(buf *buffer.Audio) {
	cb.inputDB.Store(level.RMSDB(buf))
	cb.comp.Process(buf, cb.bypassed.Bool())
	cb.outputDB.Store(level.RMSDB(buf))
}

// Reset clears the detector and the meters.
func (cb *CompressorBand) Reset() {
	cb.comp.Reset()
	cb.inputDB.Reset()
	cb.outputDB.Reset()
}

// InputLevelDB returns the RMS level of the last block before compression.
func (cb *CompressorBand) InputLevelDB() float64 { return cb.inputDB.Load() }

// OutputLevelDB returns the RMS level of the last block after compression.
func (cb *CompressorBand) OutputLevelDB() float64 { return cb.outputDB.Load() }

// Bypassed reports the bypass flag.
func (cb *CompressorBand) Bypassed() bool { return cb.bypassed.Bool() }

// Muted reports the mute flag.
func (cb *CompressorBand) Muted() bool { return cb.mute.Bool() }

// Soloed reports the solo flag.
func (cb *CompressorBand) Soloed() bool { return cb.solo.Bool() }

// Compressor exposes the underlying compressor for inspection. It must only
// be touched from the audio goroutine.
func (cb *CompressorBand) Compressor() *dynamics.Compressor { return cb.comp }
