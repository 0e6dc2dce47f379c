// Package spectrum moves audio off the real-time goroutine and turns it
// into magnitude spectra for display.
//
// The audio goroutine writes samples into a [Ring], a single-producer
// single-consumer FIFO that never blocks or allocates; when the consumer
// falls behind, new samples are dropped and counted. An [Analyzer] drains
// the ring on its own goroutine, keeps a sliding window of the most recent
// FFT-size samples, and every hop publishes a [Frame] of per-bin levels in
// dBFS. Readers fetch the newest frame with [Analyzer.Latest].
package spectrum
