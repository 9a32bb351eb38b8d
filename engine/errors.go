package engine

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-iqspec/dsp/transform"
)

var (
	// ErrInvalidParameter reports a run parameter rejected before any I/O.
	ErrInvalidParameter = errors.New("engine: invalid parameter")

	// ErrAllocation reports that a transform plan or buffer could not be
	// acquired.
	ErrAllocation = errors.New("engine: allocation failed")
)

// SinkError reports a failed write to a named output sink.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("engine: sink %q: %v", e.Sink, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

func sinkError(name string, err error) error {
	if err == nil {
		return nil
	}
	return &SinkError{Sink: name, Err: err}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidParameter}, args...)...)
}

// planError maps transform failures onto the engine's error kinds.
func planError(n int, err error) error {
	if errors.Is(err, transform.ErrAllocation) {
		return fmt.Errorf("%w: plan of length %d: %w", ErrAllocation, n, err)
	}
	return fmt.Errorf("engine: plan of length %d: %w", n, err)
}
