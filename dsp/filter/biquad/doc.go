// Package biquad implements second-order IIR sections and cascades of them.
//
// A [Section] runs Direct Form II Transposed on a single channel. A [Chain]
// runs several sections in series, which is how the crossover builds its
// fourth-order Linkwitz-Riley responses. Coefficients come from
// dsp/filter/design; this package only owns the runtime and the analytic
// frequency response.
package biquad
