// Package spectrum derives power quantities from transform output and
// averages them across blocks.
//
// The package does not implement an FFT. It operates on complex spectrum
// bins produced by [github.com/cwbudde/algo-iqspec/dsp/transform] and keeps
// per-bin sums in float64 so that rounding error stays bounded over long
// recordings.
package spectrum
