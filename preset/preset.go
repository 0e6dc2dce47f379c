// Package preset reads and writes compressor settings as TOML documents.
//
// A preset looks like:
//
//	[crossover]
//	low_mid = 400.0
//	mid_high = 2000.0
//
//	[gain]
//	in = 0.0
//	out = 0.0
//
//	[bands.low]
//	threshold = -18.0
//	attack = 50.0
//	release = 250.0
//	ratio = 4.0
//	bypass = false
//	mute = false
//	solo = false
//
// Keys left out of a document keep their default values.
package preset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cwbudde/algo-mbcomp/mbcomp"
	"github.com/cwbudde/algo-mbcomp/params"
)

// ErrInvalidPreset is returned for documents that cannot be applied.
var ErrInvalidPreset = errors.New("preset: invalid preset")

// Preset is a full set of compressor settings.
type Preset struct {
	Crossover Crossover `toml:"crossover"`
	Gain      Gain      `toml:"gain"`
	Bands     Bands     `toml:"bands"`
}

// Crossover holds both crossover frequencies in Hz.
type Crossover struct {
	LowMid  float64 `toml:"low_mid"`
	MidHigh float64 `toml:"mid_high"`
}

// Gain holds the input and output gain in dB.
type Gain struct {
	In  float64 `toml:"in"`
	Out float64 `toml:"out"`
}

// Bands holds the per-band settings.
type Bands struct {
	Low  BandSettings `toml:"low"`
	Mid  BandSettings `toml:"mid"`
	High BandSettings `toml:"high"`
}

// BandSettings are the settings of one band. Ratio is numeric and resolves
// to the nearest available ratio.
type BandSettings struct {
	Threshold float64 `toml:"threshold"`
	Attack    float64 `toml:"attack"`
	Release   float64 `toml:"release"`
	Ratio     float64 `toml:"ratio"`
	Bypass    bool    `toml:"bypass"`
	Mute      bool    `toml:"mute"`
	Solo      bool    `toml:"solo"`
}

// Band returns the settings of b.
func (p *Preset) Band(b mbcomp.Band) *BandSettings {
	switch b {
	case mbcomp.Low:
		return &p.Bands.Low
	case mbcomp.Mid:
		return &p.Bands.Mid
	default:
		return &p.Bands.High
	}
}

// Default returns the settings of a freshly built store.
func Default() Preset {
	s, err := mbcomp.NewStore()
	if err != nil {
		panic(err)
	}

	return Capture(s)
}

// Load reads a preset file.
func Load(path string) (Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: %w", err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return Preset{}, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Decode parses a TOML document on top of the default settings. Unknown
// keys are an error.
func Decode(r io.Reader) (Preset, error) {
	p := Default()

	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: decode: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}

		return Preset{}, fmt.Errorf("%w: unknown keys %s", ErrInvalidPreset, strings.Join(keys, ", "))
	}

	return p, nil
}

// Encode writes p as TOML.
func (p Preset) Encode(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(p); err != nil {
		return fmt.Errorf("preset: encode: %w", err)
	}

	return nil
}

// Capture reads the current settings from store.
func Capture(store *params.Store) Preset {
	get := func(name string) float64 { return store.MustGet(name).Get() }

	p := Preset{
		Crossover: Crossover{
			LowMid:  get(mbcomp.LowMidCrossoverName),
			MidHigh: get(mbcomp.MidHighCrossoverName),
		},
		Gain: Gain{
			In:  get(mbcomp.GainInName),
			Out: get(mbcomp.GainOutName),
		},
	}

	for _, b := range mbcomp.Bands {
		*p.Band(b) = BandSettings{
			Threshold: get(mbcomp.ThresholdName(b)),
			Attack:    get(mbcomp.AttackName(b)),
			Release:   get(mbcomp.ReleaseName(b)),
			Ratio:     store.MustGet(mbcomp.RatioName(b)).ChoiceValue(),
			Bypass:    store.MustGet(mbcomp.BypassName(b)).Bool(),
			Mute:      store.MustGet(mbcomp.MuteName(b)).Bool(),
			Solo:      store.MustGet(mbcomp.SoloName(b)).Bool(),
		}
	}

	return p
}

type assignment struct {
	param *params.Parameter
	value float64
}

// Apply writes p into store. Every value is checked before any is written,
// so a rejected preset leaves the store unchanged.
func (p Preset) Apply(store *params.Store) error {
	var plan []assignment

	addFloat := func(name string, v float64) error {
		param, err := store.LookupKind(name, params.KindFloat)
		if err != nil {
			return err
		}

		r := param.Spec().Range
		if math.IsNaN(v) || v < r.Min || v > r.Max {
			return fmt.Errorf("%w: %s = %v outside [%v, %v]", ErrInvalidPreset, name, v, r.Min, r.Max)
		}

		plan = append(plan, assignment{param, v})

		return nil
	}

	addBool := func(name string, v bool) error {
		param, err := store.LookupKind(name, params.KindBool)
		if err != nil {
			return err
		}

		value := 0.0
		if v {
			value = 1
		}

		plan = append(plan, assignment{param, value})

		return nil
	}

	addRatio := func(name string, v float64) error {
		param, err := store.LookupKind(name, params.KindChoice)
		if err != nil {
			return err
		}

		idx, err := nearestChoice(param.Spec().Choices, v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		plan = append(plan, assignment{param, float64(idx)})

		return nil
	}

	steps := []func() error{
		func() error { return addFloat(mbcomp.LowMidCrossoverName, p.Crossover.LowMid) },
		func() error { return addFloat(mbcomp.MidHighCrossoverName, p.Crossover.MidHigh) },
		func() error { return addFloat(mbcomp.GainInName, p.Gain.In) },
		func() error { return addFloat(mbcomp.GainOutName, p.Gain.Out) },
	}

	for _, b := range mbcomp.Bands {
		bs := p.Band(b)
		steps = append(steps,
			func() error { return addFloat(mbcomp.ThresholdName(b), bs.Threshold) },
			func() error { return addFloat(mbcomp.AttackName(b), bs.Attack) },
			func() error { return addFloat(mbcomp.ReleaseName(b), bs.Release) },
			func() error { return addRatio(mbcomp.RatioName(b), bs.Ratio) },
			func() error { return addBool(mbcomp.BypassName(b), bs.Bypass) },
			func() error { return addBool(mbcomp.MuteName(b), bs.Mute) },
			func() error { return addBool(mbcomp.SoloName(b), bs.Solo) },
		)
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("preset: apply: %w", err)
		}
	}

	for _, a := range plan {
		a.param.Set(a.value)
	}

	return nil
}

// nearestChoice returns the index of the choice whose value is closest to v.
func nearestChoice(choices []params.Choice, v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || len(choices) == 0 {
		return 0, fmt.Errorf("%w: ratio %v", ErrInvalidPreset, v)
	}

	best := 0
	for i, c := range choices {
		if math.Abs(c.Value-v) < math.Abs(choices[best].Value-v) {
			best = i
		}
	}

	return best, nil
}
