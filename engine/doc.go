// Package engine runs the block-wise spectral analysis loop over an
// interleaved float32 I/Q stream.
//
// A run reads fixed-size blocks with [iq.Reader], hands each block to a
// [Kernel] that derives the per-block quantity (sample power or amplitude,
// a transform spectrum, a dB spectrogram row) and passes the resulting
// [Frame] to a [Reducer], which streams or accumulates it. Every analysis
// mode is a Reducer; [Run] is the one loop that drives them all.
//
// By default a run is sequential. With [WithWorkers] blocks are computed in
// parallel, but frames are still emitted strictly in block order, so the
// output is identical to the sequential path.
package engine
