package mbcomp

import (
	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/params"
	"github.com/cwbudde/algo-vecmath"
)

// gainStage applies a dB parameter as a linear gain and ramps linearly to
// each new target.
type gainStage struct {
	param *params.Parameter

	current   float64
	target    float64
	step      float64
	remaining int
	rampLen   int
}

func (g *gainStage) prepare(rampLen int) {
	g.rampLen = max(1, rampLen)
	g.reset()
}

// reset jumps to the parameter value without a ramp.
func (g *gainStage) reset() {
	g.target = core.DBToLinear(g.param.Get())
	g.current = g.target
	g.step = 0
	g.remaining = 0
}

func (g *gainStage) process(buf *buffer.Audio) {
	if target := core.DBToLinear(g.param.Get()); target != g.target {
		g.target = target
		g.remaining = g.rampLen
		g.step = (target - g.current) / float64(g.rampLen)
	}

	if g.remaining == 0 {
		buf.ApplyGain(g.current)
		return
	}

	n := buf.NumSamples()
	ramp := min(n, g.remaining)
	done := ramp == g.remaining

	for ch := 0; ch < buf.NumChannels(); ch++ {
		x := buf.Channel(ch)[:n]

		gain := g.current
		for i := range ramp {
			gain += g.step
			x[i] *= gain
		}

		if done && ramp < n && g.target != 1 {
			vecmath.ScaleBlock(x[ramp:], x[ramp:], g.target)
		}
	}

	g.remaining -= ramp
	if g.remaining == 0 {
		g.current = g.target
		g.step = 0
	} else {
		g.current += g.step * float64(ramp)
	}
}
