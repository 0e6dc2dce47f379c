// Package buffer provides the multi-channel float64 audio buffer used by the
// processing chain. Storage is allocated by New or SetSize only; every other
// method works on the existing backing array so it can run on the real-time
// path.
package buffer
