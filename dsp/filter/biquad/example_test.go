package biquad_test

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/filter/biquad"
	"github.com/cwbudde/algo-mbcomp/dsp/filter/design"
)

// Two cascaded Butterworth sections form the Linkwitz-Riley lowpass used by
// the crossover, -6 dB at the corner.
func ExampleChain_MagnitudeDB() {
	lp := design.Lowpass(1000, design.ButterworthQ, 48000)
	c := biquad.NewChain(lp, lp)

	fmt.Printf("order %d\n", c.Order())
	fmt.Printf("1 kHz: %+.2f dB\n", c.MagnitudeDB(1000, 48000))
	// Output:
	// order 4
	// 1 kHz: -6.02 dB
}
