package tabletmap

import "testing"

func TestScannerUnboundedOrdersForward(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "c", "a", "b")

	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	var rows []string
	for {
		k, _, ok := sc.Top()
		if !ok {
			break
		}
		rows = append(rows, string(k.Row))
		if err := sc.Advance(); err != nil {
			t.Fatal(err)
		}
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

func TestScannerBoundedRangeExcludesEnd(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "a", "b", "c", "d")

	start := Key{Row: []byte("b")}
	end := Key{Row: []byte("d")}
	sc, err := NewScanner(s, start, end, true)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	var rows []string
	for {
		k, _, ok := sc.Top()
		if !ok {
			break
		}
		rows = append(rows, string(k.Row))
		if err := sc.Advance(); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"b", "c"}
	if len(rows) != len(want) {
		t.Fatal(rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatal(rows)
		}
	}
}

func TestScannerSeekRepositions(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "a", "b", "c")

	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	if err := sc.Seek(Key{Row: []byte("b")}); err != nil {
		t.Fatal(err)
	}
	k, _, ok := sc.Top()
	if !ok || string(k.Row) != "b" {
		t.Fatal(string(k.Row), ok)
	}
}

func TestScannerInterruptStopsProduction(t *testing.T) {
	s := New(OptInterruptCheckStride(1))
	defer s.Close()
	seedStore(t, s, "a", "b", "c")

	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	sc.Interrupt()
	if err := sc.Advance(); err != ErrInterrupted {
		t.Fatal(err)
	}
	if _, _, ok := sc.Top(); ok {
		t.Fatal("expected scan to stop producing after interrupt")
	}
}

func TestScannerSeekFailsWhenAlreadyInterrupted(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "a", "b", "c")

	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	sc.Interrupt()
	if err := sc.Seek(Key{Row: []byte("b")}); err != ErrInterrupted {
		t.Fatal(err)
	}
}

func TestScannerDeepCopyIndependence(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "a", "b")

	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	cp, err := sc.DeepCopy()
	if err != nil {
		t.Fatal(err)
	}
	defer cp.Close()

	// Advancing the original must not affect the copy's position.
	if err := sc.Advance(); err != nil {
		t.Fatal(err)
	}
	k, _, ok := sc.Top()
	if !ok || string(k.Row) != "b" {
		t.Fatal(string(k.Row), ok)
	}
	k, _, ok = cp.Top()
	if !ok || string(k.Row) != "a" {
		t.Fatal(string(k.Row), ok)
	}
}

func TestScannerDeepCopySharesInterruptFlag(t *testing.T) {
	s := New(OptInterruptCheckStride(1))
	defer s.Close()
	seedStore(t, s, "a", "b", "c")

	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	cp, err := sc.DeepCopy()
	if err != nil {
		t.Fatal(err)
	}
	defer cp.Close()

	sc.Interrupt()
	if err := cp.Advance(); err != ErrInterrupted {
		t.Fatal(err)
	}
}

func TestScannerSetInterruptFlag(t *testing.T) {
	s := New(OptInterruptCheckStride(1))
	defer s.Close()
	seedStore(t, s, "a", "b")

	sc1, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc1.Close()
	sc2, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc2.Close()

	sc2.SetInterruptFlag(sc1.interrupted)
	sc1.Interrupt()
	if err := sc2.Advance(); err != ErrInterrupted {
		t.Fatal(err)
	}
}

func TestScannerInitUnsupported(t *testing.T) {
	s := New()
	defer s.Close()
	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	if err := sc.Init(nil, nil, nil); err != ErrUnsupported {
		t.Fatal(err)
	}
}

func TestScannerSetValueUnsupported(t *testing.T) {
	s := New()
	defer s.Close()
	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	if err := sc.SetValue(Value("x")); err != ErrUnsupported {
		t.Fatal(err)
	}
}

func TestIteratorRemoveUnsupported(t *testing.T) {
	s := New()
	defer s.Close()
	seedStore(t, s, "a")

	it, err := s.CursorFrom(Key{})
	if err != nil {
		t.Fatal(err)
	}
	defer it.Close()
	if err := it.Remove(); err != ErrUnsupported {
		t.Fatal(err)
	}

	bi, err := NewBatchIterator(s)
	if err != nil {
		t.Fatal(err)
	}
	defer bi.Close()
	if err := bi.Remove(); err != ErrUnsupported {
		t.Fatal(err)
	}
}

func TestScannerRejectsColumnFamilyFilter(t *testing.T) {
	s := New()
	defer s.Close()
	sc, err := NewScanner(s, Key{}, Key{}, false)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	if err := sc.WithColumnFamilyFilter(nil); err != nil {
		t.Fatal(err)
	}
	if err := sc.WithColumnFamilyFilter([]byte("cf")); err != ErrInvalidArgument {
		t.Fatal(err)
	}
}
