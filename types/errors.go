package types

import "errors"

// Error kinds.  Everything returned by this module wraps one of these, so callers should use errors.Is.
var (
	// ErrNotFound is returned when the save file to load does not exist.
	ErrNotFound = errors.New("save file not found")

	// ErrIO is returned for any other read or write failure.
	ErrIO = errors.New("i/o error")

	// ErrOutOfBounds is returned when a range falls outside the buffer.
	ErrOutOfBounds = errors.New("range out of bounds")

	// ErrSizeMismatch is returned when a replacement is not exactly as long as the range it replaces.
	ErrSizeMismatch = errors.New("size mismatch")

	ErrUnknownEncoding = errors.New("unknown text encoding")
	ErrInvalidSpec     = errors.New("invalid field spec")
	ErrOverlap         = errors.New("overlapping fields")
	ErrUnknownField    = errors.New("unknown field")
	ErrUnknownLayout   = errors.New("unknown layout")
)
