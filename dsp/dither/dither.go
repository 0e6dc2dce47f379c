// Package dither quantizes floating-point samples to integer PCM with
// optional dither noise and first-order noise shaping.
package dither

import (
	"fmt"
	"strings"
)

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone applies no dither (plain rounding).
	DitherNone DitherType = iota
	// DitherRectangular uses a uniform PDF spanning one LSB.
	DitherRectangular
	// DitherTriangular uses a triangular PDF spanning two LSB.
	DitherTriangular

	ditherTypeCount
)

var ditherTypeNames = [ditherTypeCount]string{"None", "Rectangular", "Triangular"}

// String returns the name of the dither type.
func (dt DitherType) String() string {
	if dt.Valid() {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}

// ParseDitherType resolves a case-insensitive name such as "tpdf" or
// "triangular".
func ParseDitherType(name string) (DitherType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off":
		return DitherNone, nil
	case "rectangular", "rpdf":
		return DitherRectangular, nil
	case "triangular", "tpdf":
		return DitherTriangular, nil
	}
	return DitherNone, fmt.Errorf("dither: unknown dither type %q", name)
}
