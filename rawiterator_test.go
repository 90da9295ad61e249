package tabletmap

import "testing"

func seedStore(t *testing.T, s *Store, rows ...string) {
	t.Helper()
	for _, r := range rows {
		if err := s.Put(Key{Row: []byte(r), ColumnFamily: []byte("cf"), Timestamp: 1}, Value(r)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRawIteratorOrdersForward(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "c", "a", "b")

	it, err := s.CursorFrom(Key{})
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	var rows []string
	for it.HasNext() {
		k, _, err := it.Advance()
		if err != nil {
			t.Fatal(err)
		}
		rows = append(rows, string(k.Row))
	}
	want := []string{"a", "b", "c"}
	if len(rows) != len(want) {
		t.Fatal(rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatal(rows)
		}
	}
}

func TestRawIteratorAdvanceExhausted(t *testing.T) {
	s := New()
	defer s.Close()
	it, err := s.CursorFrom(Key{})
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	if it.HasNext() {
		t.Fatal("expected empty store to have no entries")
	}
	if _, _, err := it.Advance(); err != ErrExhausted {
		t.Fatal(err)
	}
}

func TestRawIteratorStaleAfterWrite(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "a")

	it, err := s.CursorFrom(Key{})
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	if it.Stale() {
		t.Fatal("freshly created iterator should not be stale")
	}

	if err := s.Put(Key{Row: []byte("b"), Timestamp: 1}, Value("v")); err != nil {
		t.Fatal(err)
	}
	if !it.Stale() {
		t.Fatal("expected iterator to observe the write")
	}
}

func TestRawIteratorRowCompression(t *testing.T) {
	s := New()
	defer s.Close()
	// Two distinct backing arrays with identical content, to confirm the
	// iterator's reuse rather than incidental slice-identity from the test.
	row1 := []byte("r")
	row2 := append([]byte(nil), "r"...)
	if err := s.Put(Key{Row: row1, ColumnFamily: []byte("cf1"), Timestamp: 1}, Value("v1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Key{Row: row2, ColumnFamily: []byte("cf2"), Timestamp: 1}, Value("v2")); err != nil {
		t.Fatal(err)
	}
	it, err := s.CursorFrom(Key{})
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()

	k1, _, err := it.Advance()
	if err != nil {
		t.Fatal(err)
	}
	k2, _, err := it.Advance()
	if err != nil {
		t.Fatal(err)
	}
	if &k1.Row[0] != &k2.Row[0] {
		t.Fatal("expected row buffer reuse across identical rows")
	}
}
