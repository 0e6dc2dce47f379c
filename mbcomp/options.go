package mbcomp

import "github.com/cwbudde/algo-mbcomp/dsp/spectrum"

// Option configures an Engine.
type Option func(*config)

type config struct {
	inputChannels int
	tap           *spectrum.Ring
	rampBlocks    int
}

func applyOptions(opts ...Option) config {
	cfg := config{rampBlocks: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// WithInputChannels sets how many leading channels carry input. Channels
// from n up to the prepared count are zeroed before processing. Zero, the
// default, means all prepared channels.
func WithInputChannels(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.inputChannels = n
		}
	}
}

// WithSpectrumTap makes the engine write channel 0 of its output into r
// after every block.
func WithSpectrumTap(r *spectrum.Ring) Option {
	return func(c *config) {
		c.tap = r
	}
}

// WithGainRampBlocks sets how many maximum-sized blocks a gain change takes
// to reach its new value. Values below 1 are ignored.
func WithGainRampBlocks(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.rampBlocks = n
		}
	}
}
