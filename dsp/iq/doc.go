// Package iq reads and reduces interleaved float32 I/Q sample streams.
//
// A capture is a flat little-endian sequence [I0, Q0, I1, Q1, ...]. The
// [Reader] slices it into fixed-size blocks and reports [io.EOF] on the first
// short read, which is the only way a block loop terminates: a trailing
// partial block is dropped and never surfaces as an error.
//
// The per-sample helpers ([Power], [Amplitude], [PowerBlock], ...) operate on
// one interleaved block at a time and never allocate.
package iq
