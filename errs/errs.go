// Package errs defines the sentinel errors returned by tidemux.
//
// Errors are usually wrapped with the path, station or source they relate to,
// so callers should match them with errors.Is rather than by equality.
package errs

import "errors"

// Source and header validation.
var (
	ErrEmptySourceList          = errors.New("no mux2 sources given")
	ErrFileOpen                 = errors.New("cannot open mux2 source")
	ErrCorruptHeader            = errors.New("mux2 header is truncated or corrupt")
	ErrIncompatibleStationCount = errors.New("source has a different number of stations")
	ErrIncompatibleSampling     = errors.New("source has a different sampling interval")
	ErrIncompatibleLength       = errors.New("source has a different series length")
	ErrNegativeBlockSize        = errors.New("size of data block is negative")
	ErrUnsupportedCompression   = errors.New("unsupported source compression")
)

// Decoding and assembly.
var (
	ErrCorruptDataBlock  = errors.New("data block is shorter than its recording windows imply")
	ErrStationOutOfRange = errors.New("selected station index is out of range")
	ErrDegenerateWindow  = errors.New("gauge data has incorrect start and finish times")
	ErrNonPositiveLength = errors.New("gauge data has non-positive length")
	ErrAllocationFailure = errors.New("output table is too large to allocate")
	ErrInvalidWeight     = errors.New("source weight is not a finite number")
)

// Legacy URS files.
var (
	ErrBadURSHeader     = errors.New("bad data in the urs file header")
	ErrAlreadyIterated  = errors.New("urs file can only be iterated once")
	ErrTruncatedURSData = errors.New("urs file ended before the last time slice")
)

// Configuration.
var (
	ErrInvalidManifest = errors.New("invalid merge manifest")
)
