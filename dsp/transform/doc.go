// Package transform owns the discrete Fourier transform plans used by the
// block engine.
//
// A [Plan] is created once per run (or once per worker), reused for every
// block, and released with [Plan.Close]. Transforms are unscaled: callers
// normalize explicitly.
//
// Plans are backed by algo-fft in single precision. Lengths algo-fft cannot
// plan fall back to gonum's arbitrary-length complex FFT, so any block size
// of at least two samples is accepted.
package transform
