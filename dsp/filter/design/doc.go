// Package design computes biquad coefficients for the crossover network.
//
// Every designer returns a value of [biquad.Coefficients] and never
// allocates, so coefficients can be recomputed on the audio thread when a
// crossover frequency moves.
package design
