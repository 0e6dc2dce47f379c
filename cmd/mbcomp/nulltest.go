package main

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/signal"
	"github.com/cwbudde/algo-mbcomp/mbcomp"
	"github.com/cwbudde/algo-mbcomp/measure/null"
)

// NulltestCmd feeds white noise or a sweep through the engine with compression out of
// reach and compares the result with the allpass-compensated input.
type NulltestCmd struct {
	LowMid     float64 `default:"400" help:"Low/mid crossover in Hz."`
	MidHigh    float64 `default:"2000" help:"Mid/high crossover in Hz."`
	Seconds    float64 `default:"1" help:"Length of the noise burst."`
	SampleRate int     `default:"48000" help:"Sample rate in Hz."`
	Channels   int     `default:"2" help:"Channel count."`
	Block      int     `default:"512" help:"Block size in samples."`
	Signal     string  `default:"noise" enum:"noise,sweep" help:"Test signal (${enum})."`
	Seed       uint64  `default:"1" help:"Noise seed."`
	Limit      float64 `default:"-60" help:"Highest acceptable residual in dB."`
}

func (c *NulltestCmd) Run(g *Globals) error {
	frames := int(c.Seconds * float64(c.SampleRate))
	if frames <= 0 || c.Channels <= 0 {
		return fmt.Errorf("need a positive length and channel count")
	}

	store, err := mbcomp.NewStore()
	if err != nil {
		return err
	}

	store.MustGet(mbcomp.LowMidCrossoverName).Set(c.LowMid)
	store.MustGet(mbcomp.MidHighCrossoverName).Set(c.MidHigh)
	for _, b := range mbcomp.Bands {
		store.MustGet(mbcomp.ThresholdName(b)).Set(12)
	}

	lowMid := store.MustGet(mbcomp.LowMidCrossoverName).Get()
	midHigh := store.MustGet(mbcomp.MidHighCrossoverName).Get()
	g.logf("Crossovers: %g Hz / %g Hz, signal %s", lowMid, midHigh, c.Signal)

	eng, err := mbcomp.New(store)
	if err != nil {
		return err
	}

	if err := eng.Prepare(float64(c.SampleRate), c.Block, c.Channels); err != nil {
		return err
	}

	gen, err := signal.NewGenerator(float64(c.SampleRate), signal.WithSeed(c.Seed))
	if err != nil {
		return err
	}

	input := make([][]float64, c.Channels)
	output := make([][]float64, c.Channels)
	for ch := range input {
		if c.Signal == "sweep" {
			input[ch], err = gen.LogSweep(20, min(20000, 0.45*float64(c.SampleRate)), 0.9, frames)
		} else {
			input[ch], err = gen.WhiteNoise(1, frames)
		}
		if err != nil {
			return err
		}
		output[ch] = append([]float64(nil), input[ch]...)
	}

	process(eng, &pcmClip{channels: output, sampleRate: c.SampleRate}, c.Block)

	fmt.Fprintln(g.stdout, titleStyle.Render("Crossover null test"))
	printKV(g.stdout, "Crossovers", fmt.Sprintf("%g Hz / %g Hz", lowMid, midHigh))

	worst := null.FloorDB
	for ch := range input {
		ref, err := null.Compensate(input[ch], lowMid, midHigh, float64(c.SampleRate))
		if err != nil {
			return err
		}

		r := null.ResidualDB(ref, output[ch])
		worst = max(worst, r)
		printKV(g.stdout, fmt.Sprintf("Channel %d residual", ch), fmt.Sprintf("%.1f dB", r))
	}

	if worst > c.Limit {
		fmt.Fprintln(g.stdout, errorStyle.Render(fmt.Sprintf("FAIL: %.1f dB above %.1f dB", worst, c.Limit)))
		return errFailed
	}

	fmt.Fprintln(g.stdout, passStyle.Render("PASS"))

	return nil
}
