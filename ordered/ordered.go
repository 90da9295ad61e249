// Package ordered implements the Ordered Store (C4 of the design): a sorted
// mapping from a comparable key type to a sized value type, backed by a
// B-tree for logarithmic Apply/Get and ordered forward traversal.
//
// This package knows nothing about tabletmap's Key/Value types directly —
// it is generic over any K satisfying Comparable[K] and any V satisfying
// Sized; a K that also implements Sized has its bytes counted by MemoryUsed,
// while any other K counts as zero bytes. tabletmap can therefore depend on
// it without a cycle, the same
// way the teacher's root "brimstore" package depends on the separate
// "valuelocmap" package for its own location index.
//
// Store carries no lock of its own. The Concurrency Envelope above it
// (tabletmap.Store) is the sole synchronization point; every method here
// must be called with whatever external lock the caller has established.
package ordered

import "github.com/tidwall/btree"

// Comparable is the ordering contract a key type must satisfy to be usable
// with Store: a three-way comparison consistent with spec.md §3's rules.
type Comparable[T any] interface {
	Compare(other T) int
}

// Sized reports an approximate resident byte count for memory_used
// accounting (spec.md §4.1) and the Batched Iterator's byte cap (spec.md
// §4.4).
type Sized interface {
	ByteSize() int
}

type entry[K Comparable[K], V Sized] struct {
	key   K
	value V
}

// Store is the Ordered Store (C4).
type Store[K Comparable[K], V Sized] struct {
	less func(a, b entry[K, V]) bool
	tree *btree.BTreeG[entry[K, V]]
	mem  int
}

// New constructs an empty Store.
func New[K Comparable[K], V Sized]() *Store[K, V] {
	less := func(a, b entry[K, V]) bool { return a.key.Compare(b.key) < 0 }
	return &Store[K, V]{
		less: less,
		tree: btree.NewBTreeG[entry[K, V]](less),
	}
}

// Apply inserts or overwrites the Value at Key (spec.md §4.1). The caller
// must hold the exclusive lock.
func (s *Store[K, V]) Apply(key K, value V) {
	prev, replaced := s.tree.Set(entry[K, V]{key: key, value: value})
	if replaced {
		s.mem -= keySize(prev.key) + prev.value.ByteSize()
	}
	s.mem += keySize(key) + value.ByteSize()
}

// keySize returns key's ByteSize when K implements Sized, else zero.
func keySize[K any](key K) int {
	if sz, ok := any(key).(Sized); ok {
		return sz.ByteSize()
	}
	return 0
}

// Get performs an exact lookup (spec.md §4.1). The caller must hold at
// least the shared lock.
func (s *Store[K, V]) Get(key K) (V, bool) {
	e, ok := s.tree.Get(entry[K, V]{key: key})
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Len returns the number of entries.
func (s *Store[K, V]) Len() int {
	return s.tree.Len()
}

// MemoryUsed returns the approximate resident bytes of all keys and values
// currently stored, per spec.md §4.1.
func (s *Store[K, V]) MemoryUsed() int {
	return s.mem
}

// Clear empties the Store, releasing its backing tree. Used by the
// Concurrency Envelope on Close (spec.md §3 "shrinks only on clear /
// destroy").
func (s *Store[K, V]) Clear() {
	s.tree = btree.NewBTreeG[entry[K, V]](s.less)
	s.mem = 0
}

// Cursor is a positioned forward cursor into a Store, the primitive
// RawIterator is built on (spec.md §4.1 cursor_from, §4.3).
type Cursor[K Comparable[K], V Sized] struct {
	iter btree.IterG[entry[K, V]]
	ok   bool
}

// CursorFrom returns a Cursor positioned at the smallest entry whose key is
// >= key, or an exhausted Cursor if the Store has no such entry (spec.md
// §4.1). The caller must hold at least the shared lock for the duration of
// the call, and for any subsequent Advance calls against the Cursor.
func (s *Store[K, V]) CursorFrom(key K) *Cursor[K, V] {
	c := &Cursor[K, V]{iter: s.tree.Iter()}
	c.ok = c.iter.Seek(entry[K, V]{key: key})
	return c
}

// Valid reports whether the cursor currently sits on an entry.
func (c *Cursor[K, V]) Valid() bool {
	return c.ok
}

// Key returns the key the cursor is positioned at. Valid must be true.
func (c *Cursor[K, V]) Key() K {
	return c.iter.Item().key
}

// Value returns the value the cursor is positioned at. Valid must be true.
func (c *Cursor[K, V]) Value() V {
	return c.iter.Item().value
}

// Advance moves the cursor one position forward and reports whether it
// landed on a valid entry.
func (c *Cursor[K, V]) Advance() bool {
	c.ok = c.iter.Next()
	return c.ok
}

// Close releases the cursor's hold on the tree. A Cursor that is dropped
// without Close is reclaimed by the garbage collector once unreferenced;
// Close simply makes that release timely rather than relying on GC.
func (c *Cursor[K, V]) Close() {
	c.iter.Release()
}
