package tabletmap

import "github.com/gholt/tabletmap/ordered"

// RawIterator is a forward cursor over a Store's Ordered Store, positioned
// at construction and advanced one entry at a time (spec.md §4.3, C6).
//
// A RawIterator is not safe for concurrent use and must only be advanced
// while the caller holds at least the Store's shared lock — it does no
// locking of its own. It snapshots the Store's modification counter at
// construction; callers check that snapshot against the live counter via
// Stale before trusting a batch of Advance calls (spec.md §4.3
// "Invalidation detection").
type RawIterator struct {
	store       *Store
	cursor      *ordered.Cursor[Key, Value]
	snapshotMod uint64
	lastRow     []byte
	hasNext     bool
	closed      bool
}

// newRawIterator builds a RawIterator positioned at the first entry with
// key >= from. The caller must hold at least the Store's shared lock.
func newRawIterator(s *Store, from Key) *RawIterator {
	cur := s.data.CursorFrom(from)
	return &RawIterator{
		store:       s,
		cursor:      cur,
		snapshotMod: s.modCountLocked(),
		hasNext:     cur.Valid(),
	}
}

// Stale reports whether a write has occurred against the Store since this
// RawIterator was constructed (BatchIterator.refill replaces a stale one
// with a fresh RawIterator). The caller must hold at least the shared lock.
// Per spec.md §4.3, only this explicit pre-check can observe staleness;
// Advance itself never checks.
func (it *RawIterator) Stale() bool {
	return it.store.modCountLocked() != it.snapshotMod
}

// HasNext reports whether Advance would return an entry.
func (it *RawIterator) HasNext() bool {
	return it.hasNext
}

// Advance returns the current entry and moves the cursor one position
// forward (spec.md §4.3). The caller must hold at least the shared lock.
// Calling Advance when HasNext is false is a programmer error (ErrExhausted).
//
// Row compression: if the next entry's row bytes are byte-identical to the
// row just returned, the returned Key reuses the previous row buffer
// instead of a fresh copy, since the two entries' Row fields already point
// at the caller-owned byte slices stored in the Ordered Store and those are
// never mutated in place (spec.md §4.3, §9 "Row buffer aliasing").
func (it *RawIterator) Advance() (Key, Value, error) {
	if !it.hasNext {
		return Key{}, nil, ErrExhausted
	}
	key := it.cursor.Key()
	value := it.cursor.Value()
	if it.lastRow != nil && sameRow(key.Row, it.lastRow) {
		key.Row = it.lastRow
	} else {
		it.lastRow = key.Row
	}
	it.hasNext = it.cursor.Advance()
	return key, value, nil
}

// Close releases the RawIterator's underlying cursor. An iterator dropped
// without Close is still safely reclaimed once unreferenced (spec.md §4.3
// "Teardown"); Close only makes the release timely.
func (it *RawIterator) Close() {
	if it.closed {
		return
	}
	it.closed = true
	it.cursor.Close()
}

// Remove is unsupported: the Raw Iterator is a forward-only view and does
// not support mutation (spec.md §4.4 "Forward-only", §7 "unsupported",
// iterator remove).
func (it *RawIterator) Remove() error {
	return ErrUnsupported
}
