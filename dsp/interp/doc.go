// Package interp provides interpolation primitives for locating peaks
// between the bins of a sampled spectrum.
package interp
