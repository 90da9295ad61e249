package tabletmap

// ColumnUpdate is one column revision to apply to a Mutation's row: a
// (column family, column qualifier, column visibility, timestamp, tombstone
// flag, value) tuple (spec.md §3-4.2).
type ColumnUpdate struct {
	ColumnFamily     []byte
	ColumnQualifier  []byte
	ColumnVisibility []byte
	Timestamp        int64
	Deleted          bool
	Value            Value
}

// Mutation is a row plus an ordered list of column updates to apply
// atomically to that row (spec.md §3). Readers never observe a partial
// Mutation: all of its updates become visible at a single modification
// counter increment (spec.md §5).
type Mutation struct {
	Row     []byte
	Updates []ColumnUpdate
}

// Size returns the number of column updates in the Mutation. Bulk mutate
// sums Size across processed Mutations to decide when to release and
// reacquire the exclusive lock (spec.md §4.2).
func (m Mutation) Size() int {
	return len(m.Updates)
}

// keys expands m into its constituent Keys, tagging every one with
// mutationCount as required by spec.md §4.2: all updates of one Mutation
// share the same writer-supplied mutation count. Two updates of one
// Mutation that agree on every other field therefore produce equal Keys,
// and the later one overwrites the earlier when applied.
func (m Mutation) keys(mutationCount uint32) ([]Key, []Value) {
	keys := make([]Key, len(m.Updates))
	values := make([]Value, len(m.Updates))
	for i, u := range m.Updates {
		keys[i] = Key{
			Row:              m.Row,
			ColumnFamily:     u.ColumnFamily,
			ColumnQualifier:  u.ColumnQualifier,
			ColumnVisibility: u.ColumnVisibility,
			Timestamp:        u.Timestamp,
			Deleted:          u.Deleted,
			MutationCount:    mutationCount,
		}
		values[i] = u.Value
	}
	return keys, values
}
