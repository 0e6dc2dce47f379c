// Package crossover splits multi-channel audio into frequency bands with
// fourth-order Linkwitz-Riley filters.
//
// A [Filter] is one LR4 lowpass, highpass or allpass applied to every
// channel of a [buffer.Audio]. A [Network] wires five of them into the
// three-band topology
//
//	low  = LP(f1) · AP(f2)
//	mid  = HP(f1) · LP(f2)
//	high = HP(f1) · HP(f2)
//
// so that low + mid + high equals AP(f1)·AP(f2) applied to the input: flat
// magnitude with the phase of two second-order allpasses.
//
// Cutoff changes keep the filter state, so moving a crossover does not
// click. Both types must be prepared before use and do not allocate
// afterwards.
package crossover
