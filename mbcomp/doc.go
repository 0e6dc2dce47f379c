// Package mbcomp is a three-band multiband compressor.
//
// An [Engine] splits its input with a Linkwitz-Riley crossover network into
// low, mid and high bands, compresses each band with its own
// [CompressorBand], and sums the bands back together honoring per-band
// bypass, mute and solo. Every control lives in a [params.Store] built from
// [Layout]; the audio goroutine reads it lock-free once per block.
//
// Typical use:
//
//	store, _ := params.NewStore(mbcomp.Layout())
//	eng, _ := mbcomp.New(store)
//	_ = eng.Prepare(48000, 512, 2)
//	eng.ProcessBlock(buf) // on the audio goroutine
//	store.MustGet(mbcomp.ThresholdName(mbcomp.Low)).Set(-24) // anywhere
package mbcomp
