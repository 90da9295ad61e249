package tabletmap

import (
	"fmt"
	"sync"

	"github.com/gholt/brimtext"

	"github.com/gholt/tabletmap/ordered"
)

// Store is the Concurrency Envelope (C5) owning one Ordered Store (C4), a
// single reader/writer lock, a modification counter, and lifecycle state
// (spec.md §4.6). It is the write-buffer of one tablet.
//
// put/mutate/close take the exclusive lock; get/size/memory_used/cursor
// creation take the shared lock, matching the teacher's convention of a
// single sync.RWMutex guarding one shared structure rather than per-bucket
// striping (valuelocmap.go uses striped locks only because it is lock-free
// at the read path by design; this core trades that for the simpler,
// explicitly-specified single-lock model of spec.md §4.6).
type Store struct {
	opts *options

	lock  sync.RWMutex
	data  *ordered.Store[Key, Value]
	mods  uint64
	state storeState

	mutationCount uint32

	id uint64
}

type storeState int32

const (
	stateLive storeState = iota
	stateClosed
)

// New constructs a live, empty Store and registers it with the process-wide
// allocation registry (spec.md §4.6).
func New(opts ...Option) *Store {
	s := &Store{
		opts:  resolveOptions(opts...),
		data:  ordered.New[Key, Value](),
		state: stateLive,
	}
	s.id = registerStore(s)
	return s
}

// Close transitions the Store to Closed; every subsequent operation other
// than Close itself and Stats fails with ErrClosed (spec.md §4.6). Stats
// still reports a snapshot, with Closed set. Close is idempotent.
func (s *Store) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state == stateClosed {
		return
	}
	s.state = stateClosed
	s.data.Clear()
	deregisterStore(s.id)
}

// Put applies a single (Key, Value) pair as one externally-visible write
// event, bumping the modification counter once (spec.md §4.2 single-update
// fast path, §5).
func (s *Store) Put(key Key, value Value) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state == stateClosed {
		return ErrClosed
	}
	s.data.Apply(key, value)
	s.mods++
	return nil
}

// Get performs an exact lookup under the shared lock (spec.md §4.1).
func (s *Store) Get(key Key) (Value, bool, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state == stateClosed {
		return nil, false, ErrClosed
	}
	v, ok := s.data.Get(key)
	return v, ok, nil
}

// Size returns the number of entries under the shared lock.
func (s *Store) Size() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state == stateClosed {
		return 0, ErrClosed
	}
	return s.data.Len(), nil
}

// MemoryUsed returns the approximate resident bytes of all entries under
// the shared lock.
func (s *Store) MemoryUsed() (int, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state == stateClosed {
		return 0, ErrClosed
	}
	return s.data.MemoryUsed(), nil
}

// Mutate applies a single Mutation atomically: all of its column updates
// become visible at one modification-counter increment (spec.md §4.2,
// §5). mutationCount is the writer-chosen, globally-unique tag assigned to
// every Key this Mutation produces.
func (s *Store) Mutate(m Mutation, mutationCount uint32) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.state == stateClosed {
		return ErrClosed
	}
	s.applyMutationLocked(m, mutationCount)
	s.mods++
	return nil
}

func (s *Store) applyMutationLocked(m Mutation, mutationCount uint32) {
	keys, values := m.keys(mutationCount)
	for i, k := range keys {
		s.data.Apply(k, values[i])
	}
}

// MutateBatch applies a list of Mutations in order, assigning mutation
// counts startCount, startCount+1, ... to successive Mutations (spec.md
// §4.2 bulk mutate). To bound lock-hold time, the exclusive lock is
// released and reacquired roughly every OptMutateBatchSize column updates
// (summed across processed Mutations, default 10); each reacquisition is
// one externally-visible write event and bumps the modification counter by
// one. Returns the next unused mutation count.
func (s *Store) MutateBatch(muts []Mutation, startCount uint32) (uint32, error) {
	count := startCount
	i := 0
	for i < len(muts) {
		s.lock.Lock()
		if s.state == stateClosed {
			s.lock.Unlock()
			return count, ErrClosed
		}
		pending := 0
		for i < len(muts) && (pending == 0 || pending < s.opts.mutateBatchSize) {
			s.applyMutationLocked(muts[i], count)
			pending += muts[i].Size()
			count++
			i++
		}
		s.mods++
		s.lock.Unlock()
	}
	return count, nil
}

// CursorFrom builds a RawIterator positioned at the smallest entry with key
// >= from, under the shared lock (spec.md §4.3). The returned iterator
// snapshots the current modification counter for later staleness checks.
func (s *Store) CursorFrom(from Key) (*RawIterator, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.state == stateClosed {
		return nil, ErrClosed
	}
	return newRawIterator(s, from), nil
}

// modCountLocked returns the current modification counter. Must be called with
// at least the shared lock held.
func (s *Store) modCountLocked() uint64 {
	return s.mods
}

// Stats is a snapshot of Store diagnostics, modeled on the teacher's
// ValuesStoreStats (valuesstore.go:GatherStats).
type Stats struct {
	Entries           int
	ApproxMemoryBytes int
	ModificationCount uint64
	Closed            bool
}

// Stats gathers a diagnostic snapshot under the shared lock.
func (s *Store) Stats() Stats {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return Stats{
		Entries:           s.data.Len(),
		ApproxMemoryBytes: s.data.MemoryUsed(),
		ModificationCount: s.mods,
		Closed:            s.state == stateClosed,
	}
}

// String renders Stats as an aligned table via brimtext.Align, the same
// library and layout the teacher uses for ValuesStoreStats.String()
// (valuesstore.go:816).
func (st Stats) String() string {
	return brimtext.Align([][]string{
		{"entries", fmt.Sprintf("%d", st.Entries)},
		{"approxMemoryBytes", fmt.Sprintf("%d", st.ApproxMemoryBytes)},
		{"modificationCount", fmt.Sprintf("%d", st.ModificationCount)},
		{"closed", fmt.Sprintf("%t", st.Closed)},
	}, nil)
}
