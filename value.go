package tabletmap

// Value is an opaque, immutable byte payload (spec.md §3). tabletmap never
// interprets its contents.
type Value []byte

// ByteSize returns the approximate resident byte count of v, used by
// memory_used accounting and the batched iterator's byte cap. It satisfies
// ordered.Sized.
func (v Value) ByteSize() int {
	return len(v)
}
