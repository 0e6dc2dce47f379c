// Package params is a lock-free parameter store for real-time audio code.
//
// A [Store] is built once from a static table of [Spec] values. Every
// parameter is one of three kinds (float range, choice list or boolean),
// and its current value lives in an atomic word, so the audio goroutine
// reads it without locks while a control goroutine writes it.
//
// Values are sanitized on write: floats snap to their step and clamp to
// their range, choice indices round and clamp to the list, booleans
// coerce to 0 or 1. Readers therefore never see an out-of-range value.
//
// Change listeners registered with [Store.Subscribe] run on the writer's
// goroutine. The store state can be saved and restored as a compact binary
// blob through [Store.MarshalBinary] and [Store.UnmarshalBinary].
package params
