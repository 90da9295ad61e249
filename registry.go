package tabletmap

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/gholt/brimtext"
	"github.com/spaolacci/murmur3"
)

// Process-wide allocation registry for Stores (spec.md §4.6): a shutdown
// diagnostic reports the count of still-open Stores and the cumulative
// count ever allocated, mirroring the teacher's valuesLocBlocks/
// atValuesLocBlocksIDer indexed-slice-plus-atomic-counter bookkeeping
// (valuesstore.go:144-145, addValuesLocBock at valuesstore.go:348).
//
// Identity fingerprinting repurposes murmur3 from the teacher's disk-block
// checksum role (valuesstore.go:672) into an in-memory collision check:
// registering two live Stores under the same identity is the
// internal-consistency error spec.md §7 calls for.
var nextStoreID uint64

type registryEntry struct {
	identity    string
	fingerprint uint32
}

type storeRegistry struct {
	mu             sync.Mutex
	live           map[uint64]registryEntry
	byFingerprint  map[uint32]uint64
	totalAllocated uint64
}

var globalRegistry = &storeRegistry{
	live:          make(map[uint64]registryEntry),
	byFingerprint: make(map[uint32]uint64),
}

func registerStore(s *Store) uint64 {
	id := atomic.AddUint64(&nextStoreID, 1)
	identity := s.opts.identity
	if identity == "" {
		identity = fmt.Sprintf("store-%d", id)
	}
	fp := murmur3.Sum32([]byte(identity))

	r := globalRegistry
	r.mu.Lock()
	defer r.mu.Unlock()
	if existingID, collide := r.byFingerprint[fp]; collide {
		if r.live[existingID].identity == identity {
			panic(fmt.Sprintf("tabletmap: duplicate store identity %q: %v", identity, ErrInternalConsistency))
		}
	}
	r.live[id] = registryEntry{identity: identity, fingerprint: fp}
	r.byFingerprint[fp] = id
	r.totalAllocated++
	return id
}

func deregisterStore(id uint64) {
	r := globalRegistry
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.live[id]; ok {
		delete(r.byFingerprint, e.fingerprint)
	}
	delete(r.live, id)
}

// ShutdownDiagnostic renders the count of still-open Stores and the
// cumulative count ever allocated as an aligned table, via the same
// brimtext.Align the teacher uses for ValuesStoreStats.String()
// (valuesstore.go:816).
func ShutdownDiagnostic() string {
	r := globalRegistry
	r.mu.Lock()
	defer r.mu.Unlock()
	return brimtext.Align([][]string{
		{"openStores", fmt.Sprintf("%d", len(r.live))},
		{"totalAllocated", fmt.Sprintf("%d", r.totalAllocated)},
	}, nil)
}

// LogShutdownDiagnostic logs ShutdownDiagnostic via the standard log
// package. A process embedding tabletmap calls this from its own teardown
// hook (spec.md §6); tabletmap never calls it itself.
func LogShutdownDiagnostic() {
	log.Printf("tabletmap shutdown diagnostic:\n%s", ShutdownDiagnostic())
}
