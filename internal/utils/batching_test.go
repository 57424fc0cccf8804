package utils

import "testing"

func TestBatchBufferTake(t *testing.T) {
	b := NewBatchBuffer[int](3)
	for i := 0; i < 7; i++ {
		b.Add(i)
	}
	if b.Len() != 7 {
		t.Fatalf("Len = %d, want 7", b.Len())
	}

	var sizes []int
	for b.HasData() {
		sizes = append(sizes, len(b.Take()))
	}
	want := []int{3, 3, 1}
	if len(sizes) != len(want) {
		t.Fatalf("batches = %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("batches = %v, want %v", sizes, want)
		}
	}
	if b.Take() != nil {
		t.Fatal("expected nil from empty buffer")
	}
}

func TestBatchBufferGetAndClear(t *testing.T) {
	b := NewBatchBuffer[string](2)
	b.Add("a")
	b.Add("b")
	b.Add("c")

	got := b.GetAndClear()
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Fatalf("GetAndClear = %v", got)
	}
	if b.Len() != 0 || b.HasData() {
		t.Fatal("expected empty buffer")
	}
}
