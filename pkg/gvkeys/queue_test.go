package gvkeys

import (
	"sync"
	"testing"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()

	q.Push('a')
	q.Push('b')
	q.Push('q')

	if q.Len() != 3 {
		t.Fatalf("Expected 3 pending keys, got %d", q.Len())
	}

	for i, want := range []rune{'a', 'b', 'q'} {
		ks, ok := q.TryPop()
		if !ok {
			t.Fatalf("TryPop() #%d returned empty", i)
		}
		if ks.Key != want {
			t.Errorf("TryPop() #%d = %q, want %q", i, ks.Key, want)
		}
		if ks.Seq != uint64(i+1) {
			t.Errorf("Expected sequence %d, got %d", i+1, ks.Seq)
		}
	}

	if _, ok := q.TryPop(); ok {
		t.Error("Expected empty queue after draining")
	}
}

func TestQueue_SequenceIsMonotonic(t *testing.T) {
	q := NewQueue()
	q.Push('x')
	q.TryPop()
	ks := q.Push('y')
	if ks.Seq != 2 {
		t.Errorf("Expected sequence to keep counting after pop, got %d", ks.Seq)
	}
}

func TestQueue_ConcurrentPushPop(t *testing.T) {
	q := NewQueue()
	const n = 500

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push('k')
		}
	}()

	seen := make(map[uint64]bool)
	var last uint64
	for len(seen) < n {
		ks, ok := q.TryPop()
		if !ok {
			continue
		}
		if seen[ks.Seq] {
			t.Fatalf("Keystroke %d consumed twice", ks.Seq)
		}
		if ks.Seq <= last {
			t.Fatalf("Out of order: %d after %d", ks.Seq, last)
		}
		last = ks.Seq
		seen[ks.Seq] = true
	}
	wg.Wait()
}

func TestIsQuit(t *testing.T) {
	tests := []struct {
		key  rune
		want bool
	}{
		{'q', true},
		{'Q', true},
		{0x03, true},
		{'a', false},
		{'\r', false},
		{0, false},
	}

	for _, tt := range tests {
		if got := IsQuit(tt.key); got != tt.want {
			t.Errorf("IsQuit(%q) = %v, want %v", tt.key, got, tt.want)
		}
		if got := (Keystroke{Key: tt.key}).IsQuit(); got != tt.want {
			t.Errorf("Keystroke{%q}.IsQuit() = %v, want %v", tt.key, got, tt.want)
		}
	}
}
