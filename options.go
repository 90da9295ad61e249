package tabletmap

import (
	"os"
	"strconv"
)

// Tunable defaults from spec.md §4.4/§4.5, overridable per-Store via
// functional options and, failing that, by environment variable — the same
// two-level fallback the teacher uses for its own tunables
// (valuelocmap.go's resolveConfig, valuesstore.go's NewValuesStoreOpts).
const (
	defaultMaxBatch             = 16
	defaultReadAheadBytes       = 4096
	defaultInterruptCheckStride = 100
	defaultMutateBatchSize      = 10
)

type options struct {
	maxBatch             int
	readAheadBytes       int
	interruptCheckStride int
	mutateBatchSize      int
	identity             string
}

// Option configures a Store at construction time.
type Option func(*options)

func resolveOptions(opts ...Option) *options {
	o := &options{
		maxBatch:             envInt("TABLETMAP_MAX_BATCH", defaultMaxBatch),
		readAheadBytes:       envInt("TABLETMAP_READ_AHEAD_BYTES", defaultReadAheadBytes),
		interruptCheckStride: envInt("TABLETMAP_INTERRUPT_CHECK_STRIDE", defaultInterruptCheckStride),
		mutateBatchSize:      envInt("TABLETMAP_MUTATE_BATCH_SIZE", defaultMutateBatchSize),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxBatch < 1 {
		o.maxBatch = 1
	}
	if o.readAheadBytes < 1 {
		o.readAheadBytes = 1
	}
	if o.interruptCheckStride < 1 {
		o.interruptCheckStride = 1
	}
	if o.mutateBatchSize < 1 {
		o.mutateBatchSize = 1
	}
	return o
}

func envInt(name string, def int) int {
	if env := os.Getenv(name); env != "" {
		if val, err := strconv.Atoi(env); err == nil && val > 0 {
			return val
		}
	}
	return def
}

// OptMaxBatch caps the batched iterator's read-ahead ring at n entries.
// Defaults to env TABLETMAP_MAX_BATCH or 16 (spec.md §4.4 MAX_BATCH).
func OptMaxBatch(n int) Option {
	return func(o *options) { o.maxBatch = n }
}

// OptReadAheadBytes caps the cumulative key+value bytes pulled into one
// batched-iterator refill. Defaults to env TABLETMAP_READ_AHEAD_BYTES or
// 4096 (spec.md §4.4 READ_AHEAD_BYTES).
func OptReadAheadBytes(n int) Option {
	return func(o *options) { o.readAheadBytes = n }
}

// OptInterruptCheckStride controls how many Scanner.Advance calls pass
// between interrupt-flag polls. Defaults to env
// TABLETMAP_INTERRUPT_CHECK_STRIDE or 100 (spec.md §4.5
// INTERRUPT_CHECK_STRIDE).
func OptInterruptCheckStride(n int) Option {
	return func(o *options) { o.interruptCheckStride = n }
}

// OptIdentity labels a Store for the process-wide allocation registry
// (spec.md §4.6). Two simultaneously live Stores sharing an identity is a
// internal-consistency error. Defaults to an auto-generated, always-unique
// identity.
func OptIdentity(name string) Option {
	return func(o *options) { o.identity = name }
}

// OptMutateBatchSize controls how many column updates a bulk Mutate call
// processes before releasing and reacquiring the exclusive lock. Defaults
// to env TABLETMAP_MUTATE_BATCH_SIZE or 10 (spec.md §4.2).
func OptMutateBatchSize(n int) Option {
	return func(o *options) { o.mutateBatchSize = n }
}
