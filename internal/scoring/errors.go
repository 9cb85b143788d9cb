package scoring

import "errors"

var (
	// ErrNotFound is returned when an area identifier is absent from the
	// active dataset.
	ErrNotFound = errors.New("area not found")
	// ErrInvalidInput is returned for a non-positive AGI or PCPI, or an AGI
	// outside the configured bounds.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidData is returned when a record reaching the scorer carries a
	// non-numeric indicator.
	ErrInvalidData = errors.New("invalid data")
)
