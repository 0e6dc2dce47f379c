package dynamics_test

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/buffer"
	"github.com/cwbudde/algo-mbcomp/dsp/core"
	"github.com/cwbudde/algo-mbcomp/dsp/effects/dynamics"
)

func ExampleCompressor() {
	c := dynamics.NewCompressor()
	if err := c.Prepare(core.ProcessSpec{SampleRate: 48000, MaxBlockSize: 4800, NumChannels: 1}); err != nil {
		panic(err)
	}

	_ = c.SetThreshold(-20)
	_ = c.SetRatio(4)
	_ = c.SetAttack(5)

	buf := buffer.New(1, 4800)
	for i := range buf.Channel(0) {
		buf.Channel(0)[i] = 1
	}

	c.Process(buf, false)

	last := buf.Channel(0)[buf.NumSamples()-1]
	fmt.Printf("output: %.1f dB\n", core.LinearToDB(last))
	// Output:
	// output: -15.0 dB
}
