package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/dither"
	"github.com/cwbudde/algo-mbcomp/dsp/spectrum"
	"github.com/cwbudde/algo-mbcomp/measure/level"
	"github.com/cwbudde/algo-mbcomp/mbcomp"
	"github.com/cwbudde/algo-mbcomp/params"
)

// ProcessCmd compresses one WAV file.
type ProcessCmd struct {
	In       string   `arg:"" type:"existingfile" help:"Input WAV file."`
	Out      string   `arg:"" type:"path" help:"Output WAV file."`
	Preset   string   `type:"existingfile" help:"TOML preset applied before --set."`
	Set      []string `short:"s" sep:"none" placeholder:"NAME=VALUE" help:"Set a parameter, e.g. \"Threshold Low Band=-24\". Repeatable."`
	Block    int      `default:"512" help:"Block size in samples."`
	Spectrum bool     `help:"Analyze the output spectrum and report its peak."`
	Dither   string   `default:"triangular" enum:"none,rectangular,triangular" help:"Dither applied when writing (${enum})."`
	Shape    bool     `help:"Add first-order noise shaping to the dither."`
}

// bandMeter accumulates per-block meter readings.
type bandMeter struct {
	inSum, outSum float64
	blocks        int
}

func (m *bandMeter) add(l mbcomp.BandLevels) {
	m.inSum += l.InputDB
	m.outSum += l.OutputDB
	m.blocks++
}

func (m *bandMeter) average() (in, out float64) {
	if m.blocks == 0 {
		return level.FloorDB, level.FloorDB
	}
	return m.inSum / float64(m.blocks), m.outSum / float64(m.blocks)
}

func (c *ProcessCmd) Run(g *Globals) error {
	if c.Block <= 0 {
		return fmt.Errorf("block size must be positive, got %d", c.Block)
	}

	store, err := loadStore(c.Preset)
	if err != nil {
		return err
	}
	if c.Preset != "" {
		g.logf("Preset: %s", c.Preset)
	}

	for _, assign := range c.Set {
		p, v, err := applySet(store, assign)
		if err != nil {
			return err
		}
		g.logf("Set %s = %v (%s)", p.Name(), v, p.Format())
	}

	clip, err := readWAV(c.In)
	if err != nil {
		return err
	}
	g.logf("Input format: %d Hz, %d channels, %d-bit, %d frames",
		clip.sampleRate, len(clip.channels), clip.bitDepth, clip.frames())

	dt, err := dither.ParseDitherType(c.Dither)
	if err != nil {
		return err
	}

	before, err := summarize(clip)
	if err != nil {
		return err
	}

	var (
		ring     *spectrum.Ring
		analyzer *spectrum.Analyzer
		opts     []mbcomp.Option
	)
	if c.Spectrum {
		ring = spectrum.NewRing(1 << 16)
		analyzer, err = spectrum.NewAnalyzer(ring, spectrum.Config{SampleRate: float64(clip.sampleRate)})
		if err != nil {
			return err
		}
		opts = append(opts, mbcomp.WithSpectrumTap(ring))
	}

	eng, err := mbcomp.New(store, opts...)
	if err != nil {
		return err
	}

	if err := eng.Prepare(float64(clip.sampleRate), c.Block, len(clip.channels)); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	if analyzer != nil {
		go func() { done <- analyzer.Run(ctx) }()
	} else {
		done <- nil
	}

	meters := process(eng, clip, c.Block)

	cancel()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	after, err := summarize(clip)
	if err != nil {
		return err
	}

	if err := writeWAV(c.Out, clip, dt, c.Shape); err != nil {
		return err
	}

	fmt.Fprintln(g.stdout, titleStyle.Render("mbcomp "+c.In+" -> "+c.Out))
	printKV(g.stdout, "Format", fmt.Sprintf("%d Hz, %d ch, %d-bit", clip.sampleRate, len(clip.channels), clip.bitDepth))
	printKV(g.stdout, "Crossovers", fmt.Sprintf("%s / %s",
		store.MustGet(mbcomp.LowMidCrossoverName).Format(),
		store.MustGet(mbcomp.MidHighCrossoverName).Format()))

	fmt.Fprintln(g.stdout)
	fmt.Fprintln(g.stdout, headerStyle.Render("Band      In RMS   Out RMS   Reduction"))
	for i, m := range meters {
		in, out := m.average()
		state, _ := mbcomp.BandStateOf(store, mbcomp.Band(i))
		line := fmt.Sprintf("%-6s %7.1f dB %7.1f dB %8.1f dB", mbcomp.Band(i), in, out, in-out)
		if state != mbcomp.Normal {
			line += "  " + keyStyle.Render(state.String())
		}
		fmt.Fprintln(g.stdout, line)
	}

	fmt.Fprintln(g.stdout)
	printSummary(g.stdout, before, after)

	if analyzer != nil {
		if _, err := analyzer.Process(); err != nil {
			return err
		}
		if f := analyzer.Latest(); f != nil {
			k := f.PeakBin()
			printKV(g.stdout, "Spectrum peak", fmt.Sprintf("%.0f Hz at %.1f dBFS", f.BinHz(k), f.DB[k]))
		}
		if d := ring.Dropped(); d > 0 {
			g.logf("Spectrum tap dropped %d samples", d)
		}
	}

	return nil
}

// process runs clip through eng in place, one block at a time.
func process(eng *mbcomp.Engine, clip *pcmClip, block int) [mbcomp.NumBands]bandMeter {
	var meters [mbcomp.NumBands]bandMeter

	full := buffer.FromChannels(clip.channels)
	var view buffer.Audio
	for start := 0; start < full.NumSamples(); start += block {
		full.ViewInto(&view, start, start+block)
		eng.ProcessBlock(&view)

		for i, l := range eng.Meters() {
			meters[i].add(l)
		}
	}

	return meters
}

// applySet parses "Name=value" and stores it. Booleans accept on/off,
// true/false and 1/0. Choices accept a label or the nearest numeric value.
func applySet(store *params.Store, assign string) (*params.Parameter, float64, error) {
	name, raw, ok := strings.Cut(assign, "=")
	if !ok {
		return nil, 0, fmt.Errorf("--set %q: want NAME=VALUE", assign)
	}

	p, err := store.Lookup(strings.TrimSpace(name))
	if err != nil {
		return nil, 0, fmt.Errorf("--set: %w", err)
	}

	raw = strings.TrimSpace(raw)

	switch p.Kind() {
	case params.KindBool:
		switch strings.ToLower(raw) {
		case "on", "true", "1", "yes":
			return p, p.Set(1), nil
		case "off", "false", "0", "no":
			return p, p.Set(0), nil
		}
		return nil, 0, fmt.Errorf("--set %s: %q is not a boolean", p.Name(), raw)
	case params.KindChoice:
		choices := p.Spec().Choices
		for i, c := range choices {
			if c.Label == raw {
				return p, p.Set(float64(i)), nil
			}
		}

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) {
			return nil, 0, fmt.Errorf("--set %s: %q is not a choice", p.Name(), raw)
		}

		best := 0
		for i, c := range choices {
			if math.Abs(c.Value-v) < math.Abs(choices[best].Value-v) {
				best = i
			}
		}
		return p, p.Set(float64(best)), nil
	default:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) {
			return nil, 0, fmt.Errorf("--set %s: %q is not a number", p.Name(), raw)
		}
		return p, p.Set(v), nil
	}
}
