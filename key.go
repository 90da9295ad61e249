package tabletmap

import "bytes"

// Key is the ordered, multi-attribute identity of a single cell revision, as
// defined in spec.md §3. Row, ColumnFamily, ColumnQualifier, and
// ColumnVisibility are compared lexicographically as byte strings;
// Timestamp compares in reverse (larger sorts first) so the newest version
// of a cell is visited first in a forward scan. Deleted and MutationCount do
// not participate in the ordering of distinct user keys; MutationCount
// breaks ties between entries that agree on every other field. All column
// updates of a single Mutation carry the same MutationCount (spec.md §4.2),
// so the count orders colliding entries written by different Mutations.
//
// A Key is a plain value type. Callers must not mutate the byte slices it
// holds once the Key has been handed to a Store — see the row-buffer
// aliasing note on RawIterator.
type Key struct {
	Row              []byte
	ColumnFamily     []byte
	ColumnQualifier  []byte
	ColumnVisibility []byte
	Timestamp        int64
	Deleted          bool
	MutationCount    uint32
}

// Compare orders two Keys per spec.md §3. It returns a negative number if k
// sorts before other, zero if they are identical on every ordering field
// (Deleted excluded), and a positive number otherwise.
func (k Key) Compare(other Key) int {
	if c := bytes.Compare(k.Row, other.Row); c != 0 {
		return c
	}
	if c := bytes.Compare(k.ColumnFamily, other.ColumnFamily); c != 0 {
		return c
	}
	if c := bytes.Compare(k.ColumnQualifier, other.ColumnQualifier); c != 0 {
		return c
	}
	if c := bytes.Compare(k.ColumnVisibility, other.ColumnVisibility); c != 0 {
		return c
	}
	// Timestamps sort descending: a larger timestamp is "less than" a
	// smaller one so the newest version comes first in forward order.
	switch {
	case k.Timestamp > other.Timestamp:
		return -1
	case k.Timestamp < other.Timestamp:
		return 1
	}
	switch {
	case k.MutationCount < other.MutationCount:
		return -1
	case k.MutationCount > other.MutationCount:
		return 1
	}
	return 0
}

// ByteSize returns an approximation of the resident bytes a Key occupies:
// the four byte-string attributes plus fixed overhead for the scalar
// fields. It satisfies ordered.Sized, letting Key be used directly as the
// key type parameter of an ordered.Store.
func (k Key) ByteSize() int {
	const scalarOverhead = 8 /* Timestamp */ + 1 /* Deleted */ + 4 /* MutationCount */
	return len(k.Row) + len(k.ColumnFamily) + len(k.ColumnQualifier) + len(k.ColumnVisibility) + scalarOverhead
}

// Equal reports whether k and other agree on every field, Deleted included.
// Two Keys that are Equal overwrite each other in the Ordered Store.
func (k Key) Equal(other Key) bool {
	return k.Compare(other) == 0 && k.Deleted == other.Deleted
}

// sameRow reports whether k and other share identical row bytes by content,
// used by the row-compression path in RawIterator.
func sameRow(a, b []byte) bool {
	return bytes.Equal(a, b)
}
