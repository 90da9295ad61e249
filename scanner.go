package tabletmap

import "sync/atomic"

// Scanner is the Range Scan Adaptor (C8, spec.md §4.5): a bounded, pollable
// view over a BatchIterator exposing the seek/top/advance cursor protocol
// rather than a pull-to-exhaustion iterator. It is the shape a long-running
// query loop holds so it can check a shared interrupt flag periodically
// instead of running a scan to completion uncancellably (spec.md §5
// "Cancellation").
//
// Not safe for concurrent use, except for the interrupt flag itself, which
// may be signalled from any goroutine.
type Scanner struct {
	store  *Store
	start  Key
	end    Key
	hasEnd bool

	batch *BatchIterator

	topKey   Key
	topValue Value
	hasTop   bool

	interrupted      *atomic.Bool
	interruptStride  int
	stridesRemaining int
}

// NewScanner builds a Scanner over [start, end) — end exclusive. Pass
// hasEnd false for an unbounded scan to the end of the Store. Column-family
// filtering is not supported: callers that need it must filter downstream
// of Advance (spec.md §4.5 "Non-goals").
func NewScanner(s *Store, start Key, end Key, hasEnd bool) (*Scanner, error) {
	sc := &Scanner{
		store:            s,
		start:            start,
		end:              end,
		hasEnd:           hasEnd,
		interrupted:      new(atomic.Bool),
		interruptStride:  s.opts.interruptCheckStride,
		stridesRemaining: s.opts.interruptCheckStride,
	}
	if err := sc.Seek(start); err != nil {
		return nil, err
	}
	return sc, nil
}

// Seek repositions the scan at the smallest key >= from, discarding any
// buffered state (spec.md §4.5 "Seek protocol"). Step 1 of that protocol
// fails fast with ErrInterrupted if the shared flag is already signalled,
// rather than silently repositioning a scan the caller has already asked
// to abandon.
func (sc *Scanner) Seek(from Key) error {
	if sc.interrupted.Load() {
		return ErrInterrupted
	}
	if sc.batch != nil {
		sc.batch.Close()
	}
	bi, err := NewBatchIteratorFrom(sc.store, from)
	if err != nil {
		return err
	}
	sc.batch = bi
	sc.hasTop = false
	return sc.pull()
}

// pull advances the underlying BatchIterator once and stages the result as
// Top, clearing Top if the range end has been reached or the underlying
// Store is exhausted.
func (sc *Scanner) pull() error {
	if !sc.batch.HasNext() {
		sc.hasTop = false
		return nil
	}
	k, v, err := sc.batch.Advance()
	if err == ErrExhausted {
		sc.hasTop = false
		return nil
	}
	if err != nil {
		return err
	}
	if sc.hasEnd && k.Compare(sc.end) >= 0 {
		sc.hasTop = false
		return nil
	}
	sc.topKey, sc.topValue, sc.hasTop = k, v, true
	return nil
}

// Top reports the current entry without consuming it. The second return is
// false once the scan has reached its end or has been interrupted.
func (sc *Scanner) Top() (Key, Value, bool) {
	if !sc.hasTop {
		return Key{}, nil, false
	}
	return sc.topKey, sc.topValue, true
}

// Advance consumes Top and stages the next entry. The interrupt flag is
// only actually checked every interrupt-check-stride calls, as set by
// OptInterruptCheckStride (spec.md §4.5
// INTERRUPT_CHECK_STRIDE) rather than on every call, since the flag may be
// set from another goroutine and an atomic load on every Advance would
// otherwise dominate a tight scan loop. Once an interrupt is observed,
// Advance clears Top and fails with ErrInterrupted (spec.md §5
// "Cancellation", §7 "interrupted").
func (sc *Scanner) Advance() error {
	if !sc.hasTop {
		return nil
	}
	sc.stridesRemaining--
	if sc.stridesRemaining <= 0 {
		sc.stridesRemaining = sc.interruptStride
		if sc.interrupted.Load() {
			sc.hasTop = false
			return ErrInterrupted
		}
	}
	return sc.pull()
}

// Interrupt signals this Scanner's shared interrupt flag, requesting that
// it and every Scanner sharing the flag (via DeepCopy or SetInterruptFlag)
// stop producing further entries. Safe to call from any goroutine; the
// request is observed within the OptInterruptCheckStride number of calls
// to Advance and on
// the next Seek, not necessarily immediately.
func (sc *Scanner) Interrupt() {
	sc.interrupted.Store(true)
}

// SetInterruptFlag attaches flag as this Scanner's interrupt signal,
// replacing whatever flag it previously observed (spec.md §4.5, §6
// "set_interrupt_flag"). Passing the flag of an existing Scanner lets two
// Scanners cancel together without going through DeepCopy.
func (sc *Scanner) SetInterruptFlag(flag *atomic.Bool) {
	sc.interrupted = flag
}

// DeepCopy produces an independent Scanner over the same Store, positioned
// at the same range and current position, sharing this Scanner's interrupt
// flag (spec.md §4.5, §6 "deep_copy"): signalling either Scanner's flag
// abandons both. The two Scanners otherwise advance independently — each
// owns its own BatchIterator.
func (sc *Scanner) DeepCopy() (*Scanner, error) {
	dk, _, ok := sc.Top()
	from := sc.start
	if ok {
		from = dk
	}
	cp := &Scanner{
		store:            sc.store,
		start:            sc.start,
		end:              sc.end,
		hasEnd:           sc.hasEnd,
		interrupted:      sc.interrupted,
		interruptStride:  sc.interruptStride,
		stridesRemaining: sc.interruptStride,
	}
	bi, err := NewBatchIteratorFrom(cp.store, from)
	if err != nil {
		return nil, err
	}
	cp.batch = bi
	if !ok {
		// The original has no current entry, so neither does the copy.
		return cp, nil
	}
	if err := cp.pull(); err != nil {
		return nil, err
	}
	return cp, nil
}

// Close releases the Scanner's underlying BatchIterator.
func (sc *Scanner) Close() {
	sc.batch.Close()
}

// WithColumnFamilyFilter is intentionally unimplemented: spec.md §4.5 scopes
// column-family filtering out of the Range Scan Adaptor. Any non-empty
// filter is rejected so callers fail fast instead of silently scanning
// unfiltered.
func (sc *Scanner) WithColumnFamilyFilter(cf []byte) error {
	if len(cf) == 0 {
		return nil
	}
	return ErrInvalidArgument
}

// Init exists only for interface compatibility with a merging reader that
// treats every source polymorphically; a Scanner is always a leaf source
// and re-initializing one in place is not supported (spec.md §6, §7
// "unsupported").
func (sc *Scanner) Init(source interface{}, options interface{}, env interface{}) error {
	return ErrUnsupported
}

// SetValue is unsupported: a Scanner's entries are a read-only view over
// the Store, not mutable through the scan (spec.md §7 "unsupported", entry
// set_value). Writers use Store.Put or Store.Mutate instead.
func (sc *Scanner) SetValue(value Value) error {
	return ErrUnsupported
}
