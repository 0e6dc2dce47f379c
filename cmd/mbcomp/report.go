package main

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/measure/loudness"
	timestats "github.com/cwbudde/algo-mbcomp/stats/time"
)

// clipSummary is the whole-file level report for one side of a run.
type clipSummary struct {
	stats timestats.Stats
	lufs  float64
}

func summarize(clip *pcmClip) (clipSummary, error) {
	var st timestats.Streaming
	for _, ch := range clip.channels {
		st.Update(ch)
	}

	meter, err := loudness.NewMeter(float64(clip.sampleRate), len(clip.channels))
	if err != nil {
		return clipSummary{}, err
	}
	meter.Process(buffer.FromChannels(clip.channels))

	return clipSummary{stats: st.Result(), lufs: meter.Integrated()}, nil
}

func printSummary(w io.Writer, in, out clipSummary) {
	fmt.Fprintln(w, headerStyle.Render("Level        Input    Output"))
	row := func(name, unit string, a, b float64) {
		fmt.Fprintf(w, "%-9s %7.1f %s %7.1f %s\n", name, a, unit, b, unit)
	}
	row("Peak", "dB", in.stats.PeakDB, out.stats.PeakDB)
	row("RMS", "dB", in.stats.RMSDB, out.stats.RMSDB)
	row("Crest", "dB", in.stats.CrestFactorDB, out.stats.CrestFactorDB)
	row("Loudness", "LUFS", in.lufs, out.lufs)

	if out.stats.Clipped > 0 {
		fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("%d output samples at or above full scale", out.stats.Clipped)))
	}
}
