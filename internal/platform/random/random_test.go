package random

import "testing"

func TestUniformStaysInRange(t *testing.T) {
	var src Uniform
	for i := 0; i < 5000; i++ {
		v := src.IntInRange(3, 8)
		if v < 3 || v >= 8 {
			t.Fatalf("draw %d outside [3,8)", v)
		}
	}
}

func TestUniformCoversRange(t *testing.T) {
	var src Uniform
	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		seen[src.IntInRange(2, 8)] = true
	}
	for v := 2; v < 8; v++ {
		if !seen[v] {
			t.Errorf("value %d never drawn", v)
		}
	}
}

func TestSequenceReplaysInOrder(t *testing.T) {
	seq := NewSequence(2, 7, 4)
	got := []int{seq.IntInRange(2, 8), seq.IntInRange(2, 8), seq.IntInRange(3, 8)}
	want := []int{2, 7, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("draw %d: expected %d got %d", i, want[i], got[i])
		}
	}
	if seq.Remaining() != 0 {
		t.Fatalf("expected sequence to be drained, %d left", seq.Remaining())
	}
}

func TestSequenceRejectsOutOfRangeDraw(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for draw outside range")
		}
	}()
	NewSequence(2).IntInRange(3, 8)
}

func TestSequencePanicsWhenExhausted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on exhausted sequence")
		}
	}()
	NewSequence().IntInRange(0, 1)
}
