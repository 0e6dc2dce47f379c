// Package dynamics provides the per-band compression engine.
//
// [Ballistics] is a multi-channel peak envelope follower with separate
// attack and release time constants. [Compressor] feeds it into a hard-knee
// gain computer:
//
//	gain = 1                                 if env < threshold
//	gain = (env / threshold)^(1/ratio - 1)   otherwise
//
// Below the threshold the signal passes bit-exact, so a threshold above the
// signal peak turns the compressor into an identity.
//
// Both types are prepared once for a [core.ProcessSpec] and never allocate
// while processing.
package dynamics
