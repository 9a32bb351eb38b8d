package transform

import "errors"

var (
	// ErrAllocation reports that no backend could allocate a plan and its
	// buffers for the requested length.
	ErrAllocation = errors.New("transform: plan allocation failed")

	errLength = errors.New("transform: length must be >= 2")
	errClosed = errors.New("transform: plan is closed")
	errSize   = errors.New("transform: buffer length does not match plan")
)
