package tabletmap

import "errors"

// Sentinel errors for the error kinds of spec.md §7. concurrent-modification
// is intentionally absent: it is caught and recovered inside BatchIterator
// and never crosses this package's exported surface.
var (
	// ErrClosed is returned by any operation performed after Store.Close.
	ErrClosed error = errors.New("tabletmap: store is closed")

	// ErrExhausted is returned by Advance on an iterator that has no
	// further entries. Calling Advance past exhaustion is a programmer
	// error.
	ErrExhausted error = errors.New("tabletmap: iterator exhausted")

	// ErrInterrupted is returned by Scanner.Seek/Advance once the
	// attached interrupt flag has been signalled.
	ErrInterrupted error = errors.New("tabletmap: scan interrupted")

	// ErrUnsupported is returned by operations that exist only for
	// interface compatibility with the merging layer above this
	// package and are never meant to be called here.
	ErrUnsupported error = errors.New("tabletmap: unsupported operation")

	// ErrInvalidArgument is returned by Scanner.WithColumnFamilyFilter
	// for a non-empty column-family filter.
	ErrInvalidArgument error = errors.New("tabletmap: invalid argument")

	// ErrInternalConsistency is carried in the panic that New raises when
	// the allocation registry detects a duplicate registration of the same
	// Store identity. It
	// indicates a bug in the caller wiring, not a recoverable condition.
	ErrInternalConsistency error = errors.New("tabletmap: internal consistency violation")
)
