// Package level measures block levels and publishes them between
// goroutines.
//
// [RMS] aggregates every channel and sample of a block into one figure.
// [Atomic] carries a dB reading from the audio goroutine to a meter reader
// without locks; the audio side stores, any number of readers load.
package level
