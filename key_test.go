package tabletmap

import "testing"

func TestKeyCompareRowOrder(t *testing.T) {
	a := Key{Row: []byte("a")}
	b := Key{Row: []byte("b")}
	if a.Compare(b) >= 0 {
		t.Fatal(a.Compare(b))
	}
	if b.Compare(a) <= 0 {
		t.Fatal(b.Compare(a))
	}
}

func TestKeyCompareTimestampDescending(t *testing.T) {
	newer := Key{Row: []byte("r"), Timestamp: 200}
	older := Key{Row: []byte("r"), Timestamp: 100}
	if newer.Compare(older) >= 0 {
		t.Fatal("newer timestamp should sort first")
	}
	if older.Compare(newer) <= 0 {
		t.Fatal("older timestamp should sort after newer")
	}
}

func TestKeyCompareMutationCountTieBreak(t *testing.T) {
	first := Key{Row: []byte("r"), Timestamp: 100, MutationCount: 1}
	second := Key{Row: []byte("r"), Timestamp: 100, MutationCount: 2}
	if first.Compare(second) >= 0 {
		t.Fatal("smaller mutation count should sort first")
	}
}

func TestKeyCompareIdenticalFieldsZero(t *testing.T) {
	a := Key{Row: []byte("r"), ColumnFamily: []byte("cf"), Timestamp: 5}
	b := Key{Row: []byte("r"), ColumnFamily: []byte("cf"), Timestamp: 5}
	if a.Compare(b) != 0 {
		t.Fatal(a.Compare(b))
	}
}

func TestKeyEqualIncludesDeleted(t *testing.T) {
	a := Key{Row: []byte("r"), Timestamp: 5}
	b := Key{Row: []byte("r"), Timestamp: 5, Deleted: true}
	if a.Equal(b) {
		t.Fatal("Deleted should distinguish otherwise-equal keys")
	}
	if a.Compare(b) != 0 {
		t.Fatal("Deleted should not affect ordering")
	}
}

func TestKeyByteSize(t *testing.T) {
	k := Key{Row: []byte("abc"), ColumnFamily: []byte("cf")}
	if got := k.ByteSize(); got <= len(k.Row)+len(k.ColumnFamily) {
		t.Fatal(got)
	}
}

func TestSameRow(t *testing.T) {
	if !sameRow([]byte("abc"), []byte("abc")) {
		t.Fatal("expected equal")
	}
	if sameRow([]byte("abc"), []byte("abd")) {
		t.Fatal("expected not equal")
	}
}
