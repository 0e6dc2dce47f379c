package core

import "math"

// MinusInfinityDB is the level reported for silence. Amplitudes at or below
// DBToLinear(MinusInfinityDB) map to this value instead of -Inf, so meter
// readings stay comparable and never propagate NaN.
const MinusInfinityDB = -100.0

// FlushDenormals returns 0 for |x| < 1e-30. Filter and envelope state
// decaying towards silence is passed through it.
func FlushDenormals(x float64) float64 {
	const epsilon = 1e-30
	if x > -epsilon && x < epsilon {
		return 0
	}

	return x
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// GainToDecibels converts a linear gain to dB, returning floorDB for gains
// at or below the floor (including zero, negative and NaN input).
func GainToDecibels(gain, floorDB float64) float64 {
	if !(gain > 0) {
		return floorDB
	}

	return math.Max(floorDB, 20*math.Log10(gain))
}

// DecibelsToGain converts dB to a linear gain, returning 0 for values at or
// below floorDB.
func DecibelsToGain(db, floorDB float64) float64 {
	if db <= floorDB {
		return 0
	}

	return math.Pow(10, db/20)
}
