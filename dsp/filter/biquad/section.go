package biquad

import "github.com/cwbudde/algo-mbcomp/dsp/core"

// Coefficients of one normalized biquad (a0 == 1).
//
// With Direct Form II Transposed the update is
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section is one biquad with its own delay line.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section with zeroed state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one sample.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters buf in place. It does not allocate.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	n := len(buf)
	i := 0

	// Two samples per iteration keeps the coefficients in registers.
	for ; i+1 < n; i += 2 {
		x0 := buf[i]
		y0 := b0*x0 + d0
		t0 := b1*x0 - a1*y0 + d1
		t1 := b2*x0 - a2*y0

		x1 := buf[i+1]
		y1 := b0*x1 + t0
		d0 = b1*x1 - a1*y1 + t1
		d1 = b2*x1 - a2*y1

		buf[i] = y0
		buf[i+1] = y1
	}

	if i < n {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0 = core.FlushDenormals(d0)
	s.d1 = core.FlushDenormals(d1)
}

// ProcessBlockTo filters src into dst. dst must be at least as long as src.
func (s *Section) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1]
	for i, x := range src {
		y := s.B0*x + s.d0
		s.d0 = s.B1*x - s.A1*y + s.d1
		s.d1 = s.B2*x - s.A2*y
		dst[i] = y
	}

	s.d0 = core.FlushDenormals(s.d0)
	s.d1 = core.FlushDenormals(s.d1)
}

// Reset zeroes the delay line.
func (s *Section) Reset() {
	s.d0, s.d1 = 0, 0
}

// State returns the delay line.
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a delay line captured with State.
func (s *Section) SetState(state [2]float64) {
	s.d0, s.d1 = state[0], state[1]
}
