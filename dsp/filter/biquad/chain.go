package biquad

// Chain is a fixed cascade of sections processed in series.
type Chain struct {
	sections []Section
}

// NewChain builds a cascade with one section per coefficient set.
func NewChain(coeffs ...Coefficients) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs))}
	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}

	return c
}

// ProcessSample runs x through every section in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in place through the full cascade.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// ProcessBlockTo filters src into dst through the full cascade. src is left
// untouched.
func (c *Chain) ProcessBlockTo(dst, src []float64) {
	if len(c.sections) == 0 {
		copy(dst, src)
		return
	}

	c.sections[0].ProcessBlockTo(dst, src)
	for i := 1; i < len(c.sections); i++ {
		c.sections[i].ProcessBlock(dst[:len(src)])
	}
}

// Reset zeroes every section's delay line.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// NumSections returns the number of sections.
func (c *Chain) NumSections() int { return len(c.sections) }

// Order returns the filter order.
func (c *Chain) Order() int { return 2 * len(c.sections) }

// Section returns the i-th section.
func (c *Chain) Section(i int) *Section { return &c.sections[i] }

// SetCoefficients swaps coefficients while keeping every section's delay
// line, so a parameter change does not restart the filter. When the section
// count differs the chain is rebuilt with zeroed state.
func (c *Chain) SetCoefficients(coeffs ...Coefficients) {
	if len(coeffs) != len(c.sections) {
		c.sections = make([]Section, len(coeffs))
	}

	for i := range coeffs {
		c.sections[i].Coefficients = coeffs[i]
	}
}

// State returns a copy of all section delay lines.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores delay lines captured with State.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		if i < len(states) {
			c.sections[i].SetState(states[i])
		}
	}
}
