// Package tabletmap provides an in-memory, concurrent, ordered key/value
// map used as the write-buffer of a tablet: recent mutations accumulate here
// before a compactor flushes them to immutable on-disk files. Reads against
// a tablet merge this buffer with on-disk data above this package; this
// package supplies only the buffer itself and its scan engine.
//
// A Key orders on (row, column family, column qualifier, column visibility,
// timestamp, mutation count) with one reversal: larger timestamps sort
// before smaller ones, so the most recent version of a cell is visited
// first in a forward scan. Deletes are ordinary entries carrying a tombstone
// flag; this package does no interpretation of tombstones, filters, or
// column families — that belongs to the merging reader above it.
//
// A Store owns one Ordered Store and a single reader/writer lock (the
// Concurrency Envelope of the design). Writers take the exclusive lock and
// bump a modification counter once per externally visible write. Readers
// take the shared lock to build a RawIterator, which a BatchIterator wraps
// with an adaptive read-ahead buffer to amortize lock acquisition, and which
// a Scanner wraps with range bounds and cooperative interrupt checking.
//
// Keys with identical (row, cf, cq, cv, ts) values written by different
// Mutations are kept apart by the writer-supplied mutation count, smaller
// count first. Every column update of one Mutation carries the same count,
// so two updates of one Mutation that agree on all other fields collide and
// the later overwrites the earlier.
package tabletmap
