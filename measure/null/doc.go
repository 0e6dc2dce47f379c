// Package null measures how well a processed signal cancels against a
// reference.
//
// The band sum of a Linkwitz-Riley network is not the input itself but the
// input through one allpass per crossover. [Compensator] applies those
// allpasses to a reference so that a null test can compare sample by
// sample; [ResidualDB] then reports the relative error energy.
package null
