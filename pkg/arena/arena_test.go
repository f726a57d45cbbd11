package arena

import "testing"

func TestStore_AllocIsMonotonic(t *testing.T) {
	s := New[string]()
	a := s.Alloc("a")
	b := s.Alloc("b")
	c := s.Alloc("c")

	if a != 0 || b != 1 || c != 2 {
		t.Fatalf("indices: got (%d, %d, %d), want (0, 1, 2)", a, b, c)
	}
	if got := s.Len(); got != 3 {
		t.Fatalf("len: got %d, want 3", got)
	}
	if got := s.NextIndex(); got != 3 {
		t.Fatalf("next index: got %d, want 3", got)
	}
	if *s.Get(a) != "a" || *s.Get(b) != "b" || *s.Get(c) != "c" {
		t.Fatalf("values did not round-trip through the arena")
	}
}

func TestStore_DeleteRetiresWithoutReuse(t *testing.T) {
	s := New[int]()
	a := s.Alloc(1)
	b := s.Alloc(2)

	s.Delete(a)
	if got := s.Len(); got != 1 {
		t.Fatalf("len after delete: got %d, want 1", got)
	}

	c := s.Alloc(3)
	if c != 2 {
		t.Fatalf("next alloc: got index %d, want 2 (no reuse of retired index %d)", c, a)
	}
	if *s.Get(b) != 2 || *s.Get(c) != 3 {
		t.Fatalf("surviving entries changed after delete")
	}
}

func TestStore_Reset(t *testing.T) {
	s := New[int]()
	s.Alloc(1)
	s.Alloc(2)
	s.Delete(0)
	s.Reset()

	if got := s.Len(); got != 0 {
		t.Fatalf("len after reset: got %d, want 0", got)
	}
	if got := s.NextIndex(); got != 0 {
		t.Fatalf("next index after reset: got %d, want 0", got)
	}
	if got := s.Alloc(9); got != 0 {
		t.Fatalf("first alloc after reset: got index %d, want 0", got)
	}
}
