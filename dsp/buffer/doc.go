// Package buffer provides reusable float32 block buffers and a pool for the
// parallel block engine, where several blocks are in flight at once and
// allocating a fresh slice per block would dominate GC time on long captures.
package buffer
