package um

import "testing"

func TestSegmentAllocateSequential(t *testing.T) {
	s := newSegmentStore()
	id1 := s.Allocate(4)
	id2 := s.Allocate(7)
	if id1 != 1 {
		t.Fatalf("first allocation = %d, want 1 (segment 0 already counted)", id1)
	}
	if id2 != 2 {
		t.Fatalf("second allocation = %d, want 2", id2)
	}
}

func TestSegmentFreeListReuse(t *testing.T) {
	s := newSegmentStore()
	id := s.Allocate(4)
	if err := s.Free(id); err != nil {
		t.Fatalf("Free: %v", err)
	}
	reused := s.Allocate(7)
	if reused != id {
		t.Fatalf("expected reuse of id %d, got %d", id, reused)
	}
	seg, err := s.Contents(reused)
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	if len(seg) != 7 {
		t.Fatalf("reused segment length = %d, want 7", len(seg))
	}
	for i, w := range seg {
		if w != 0 {
			t.Fatalf("word %d not zeroed: %d", i, w)
		}
	}
}

func TestSegmentFreeListIsLIFO(t *testing.T) {
	s := newSegmentStore()
	a := s.Allocate(1)
	b := s.Allocate(1)
	if err := s.Free(a); err != nil {
		t.Fatal(err)
	}
	if err := s.Free(b); err != nil {
		t.Fatal(err)
	}
	first := s.Allocate(1)
	second := s.Allocate(1)
	if first != b || second != a {
		t.Fatalf("expected LIFO reuse order [%d,%d], got [%d,%d]", b, a, first, second)
	}
}

func TestSegmentDoubleFreeIsFatal(t *testing.T) {
	s := newSegmentStore()
	id := s.Allocate(1)
	if err := s.Free(id); err != nil {
		t.Fatal(err)
	}
	if err := s.Free(id); err == nil {
		t.Fatal("expected error freeing an already-free id")
	}
}

func TestSegmentReadWriteBoundsChecked(t *testing.T) {
	s := newSegmentStore()
	id := s.Allocate(2)
	if err := s.Write(id, 0, 42); err != nil {
		t.Fatal(err)
	}
	v, err := s.Read(id, 0)
	if err != nil || v != 42 {
		t.Fatalf("Read = (%d, %v), want (42, nil)", v, err)
	}
	if _, err := s.Read(id, 2); err == nil {
		t.Fatal("expected out-of-range read to fail")
	}
	if err := s.Write(id, 2, 0); err == nil {
		t.Fatal("expected out-of-range write to fail")
	}
}

func TestSegmentUnmappedAccessIsFatal(t *testing.T) {
	s := newSegmentStore()
	if _, err := s.Read(1, 0); err == nil {
		t.Fatal("expected read of unmapped segment to fail")
	}
}

func TestSegmentSnapshotExcludesFreedAndEmpty(t *testing.T) {
	s := newSegmentStore()
	live := s.Allocate(3)
	dead := s.Allocate(3)
	empty := s.Allocate(0)
	if err := s.Free(dead); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if _, ok := snap[live]; !ok {
		t.Fatal("expected live segment in snapshot")
	}
	if _, ok := snap[dead]; ok {
		t.Fatal("freed segment should not appear in snapshot")
	}
	if _, ok := snap[empty]; ok {
		t.Fatal("empty segment should not appear in snapshot")
	}
}
