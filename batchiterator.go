package tabletmap

import "github.com/gholt/brimutil"

// batchEntry is one buffered (Key, Value) pair awaiting delivery from a
// BatchIterator.
type batchEntry struct {
	key   Key
	value Value
}

// BatchIterator wraps a RawIterator with an adaptive read-ahead buffer
// (spec.md §4.4, C7). Each refill pulls entries from the Store under the
// shared lock and releases it before the caller consumes them one at a
// time, trading a little staleness risk for far fewer lock acquisitions
// than advancing a RawIterator directly.
//
// Not safe for concurrent use.
type BatchIterator struct {
	store *Store
	from  Key
	raw   *RawIterator

	buf []batchEntry
	pos int

	batchSize int // current target fill count; doubles toward maxBatch
	maxBatch  int
	maxBytes  int

	lastKey   Key
	haveLast  bool
	exhausted bool
}

// NewBatchIterator constructs a BatchIterator positioned at the first entry
// of the Store and performs its first refill.
func NewBatchIterator(s *Store) (*BatchIterator, error) {
	return newBatchIteratorFrom(s, Key{})
}

// NewBatchIteratorFrom constructs a BatchIterator positioned at the
// smallest key >= from.
func NewBatchIteratorFrom(s *Store, from Key) (*BatchIterator, error) {
	return newBatchIteratorFrom(s, from)
}

func newBatchIteratorFrom(s *Store, from Key) (*BatchIterator, error) {
	s.lock.RLock()
	if s.state == stateClosed {
		s.lock.RUnlock()
		return nil, ErrClosed
	}
	raw := newRawIterator(s, from)
	s.lock.RUnlock()

	bi := &BatchIterator{
		store:     s,
		from:      from,
		raw:       raw,
		batchSize: 1,
		maxBatch:  s.opts.maxBatch,
		maxBytes:  s.opts.readAheadBytes,
	}
	if err := bi.refill(); err != nil {
		return nil, err
	}
	return bi, nil
}

// refill grows the read-ahead batch size (1, 2, 4, ... up to maxBatch,
// spec.md §4.4) and pulls that many entries — or fewer if READ_AHEAD_BYTES
// is reached first — from the RawIterator under the shared lock. If the
// RawIterator is found stale, refill performs the no-duplicate/no-skip
// recovery protocol: reposition a fresh RawIterator at the last entry
// returned to the caller, then discard its first result since it duplicates
// that already-delivered entry.
func (bi *BatchIterator) refill() error {
	bi.store.lock.RLock()
	defer bi.store.lock.RUnlock()

	if bi.store.state == stateClosed {
		return ErrClosed
	}

	if bi.raw.Stale() {
		bi.raw.Close()
		seekFrom := bi.from
		skipFirst := false
		if bi.haveLast {
			seekFrom = bi.lastKey
			skipFirst = true
		}
		bi.raw = newRawIterator(bi.store, seekFrom)
		if skipFirst && bi.raw.HasNext() {
			k, v, err := bi.raw.Advance()
			if err != nil {
				return err
			}
			if !k.Equal(bi.lastKey) {
				// The entry we were meant to skip disappeared (a concurrent
				// delete/overwrite of the exact key). That's fine: the
				// entry we just consumed legitimately belongs to the
				// caller's next read, so it is buffered normally below
				// rather than discarded.
				bi.bufferEntry(k, v)
			}
		}
	}

	target := bi.batchSize
	if target > bi.maxBatch {
		target = bi.maxBatch
	}
	bufCap := 1 << brimutil.PowerOfTwoNeeded(uint64(target))
	if bufCap > bi.maxBatch {
		bufCap = bi.maxBatch
	}

	bytes := 0
	for len(bi.buf) < bufCap && bi.raw.HasNext() {
		k, v, err := bi.raw.Advance()
		if err != nil {
			return err
		}
		bi.bufferEntry(k, v)
		bytes += k.ByteSize() + v.ByteSize()
		if bytes >= bi.maxBytes {
			break
		}
	}
	if !bi.raw.HasNext() && len(bi.buf) == 0 {
		bi.exhausted = true
	}
	if bi.batchSize < bi.maxBatch {
		bi.batchSize *= 2
	}
	return nil
}

func (bi *BatchIterator) bufferEntry(k Key, v Value) {
	bi.buf = append(bi.buf, batchEntry{key: k, value: v})
}

// HasNext reports whether Advance may still return an entry. It returns
// false only after a refill has found the Store exhausted; once the buffered
// entries are consumed it keeps returning true until the next Advance
// refills, so a true result can be followed by ErrExhausted from Advance.
func (bi *BatchIterator) HasNext() bool {
	return bi.pos < len(bi.buf) || !bi.exhausted
}

// Advance returns the next (Key, Value) pair, refilling the internal buffer
// as needed (spec.md §4.4). Returns ErrExhausted once the underlying Store
// has no further entries.
func (bi *BatchIterator) Advance() (Key, Value, error) {
	for bi.pos >= len(bi.buf) {
		if bi.exhausted {
			return Key{}, nil, ErrExhausted
		}
		bi.buf = bi.buf[:0]
		bi.pos = 0
		if err := bi.refill(); err != nil {
			return Key{}, nil, err
		}
	}
	e := bi.buf[bi.pos]
	bi.pos++
	bi.lastKey = e.key
	bi.haveLast = true
	return e.key, e.value, nil
}

// Close releases the BatchIterator's underlying RawIterator.
func (bi *BatchIterator) Close() {
	bi.raw.Close()
}

// Remove is unsupported: the Batched Iterator is a forward-only view and
// does not support mutation (spec.md §4.4 "Forward-only", §7 "unsupported",
// iterator remove).
func (bi *BatchIterator) Remove() error {
	return ErrUnsupported
}
