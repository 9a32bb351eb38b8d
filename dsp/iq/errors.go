package iq

import (
	"errors"
	"fmt"
	"io"
)

// ErrEndOfStream is returned by [Reader.Next] when fewer than a full block of
// values remain. It is io.EOF so callers can use the usual idiom.
var ErrEndOfStream = io.EOF

var (
	errNilReader       = errors.New("iq: reader must not be nil")
	errMismatchedBlock = errors.New("iq: destination and block must have matching lengths")
)

// ErrBlockSize reports a samples-per-block value below [MinSamplesPerBlock].
var ErrBlockSize = errors.New("iq: samples per block must be >= 2")

// ValidateSamplesPerBlock checks the run parameter shared by all block modes.
func ValidateSamplesPerBlock(n int) error {
	if n < MinSamplesPerBlock {
		return fmt.Errorf("%w: %d", ErrBlockSize, n)
	}
	return nil
}
