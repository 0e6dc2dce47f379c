package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-mbcomp/dsp/core"
)

func ExampleProcessSpec_Validate() {
	spec := core.ProcessSpec{SampleRate: 44100, MaxBlockSize: 256, NumChannels: 2}
	fmt.Println(spec.Validate())

	spec.NumChannels = 0
	fmt.Println(spec.Validate() != nil)

	// Output:
	// <nil>
	// true
}

func ExampleGainToDecibels() {
	fmt.Printf("%.1f\n", core.GainToDecibels(0.5, core.MinusInfinityDB))
	fmt.Printf("%.1f\n", core.GainToDecibels(0, core.MinusInfinityDB))

	// Output:
	// -6.0
	// -100.0
}
