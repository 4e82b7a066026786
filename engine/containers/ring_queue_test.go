package containers

import (
	"errors"
	"testing"
)

func TestRingQueueBounded(t *testing.T) {
	q := NewRingQueue[int](2)
	if err := q.Enqueue(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Enqueue(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Enqueue(3); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	v, err := q.Peek()
	if err != nil || v != 1 {
		t.Fatalf("Peek = %d, %v", v, err)
	}
	for want := 1; want <= 2; want++ {
		got, err := q.Dequeue()
		if err != nil || got != want {
			t.Fatalf("Dequeue = %d, %v; want %d", got, err, want)
		}
	}
	if _, err := q.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("expected ErrQueueEmpty, got %v", err)
	}
}

func TestRingQueueGrowKeepsOrder(t *testing.T) {
	q := NewGrowableRingQueue[int](2)
	// move the read index off zero before growing
	_ = q.Enqueue(0)
	_, _ = q.Dequeue()
	for i := 1; i <= 9; i++ {
		if err := q.Enqueue(i); err != nil {
			t.Fatalf("growable queue rejected %d: %v", i, err)
		}
	}
	if q.Len() != 9 {
		t.Fatalf("Len = %d, want 9", q.Len())
	}
	got := q.DequeueN(4)
	for i, v := range got {
		if v != i+1 {
			t.Fatalf("DequeueN order broken: %v", got)
		}
	}
	rest := q.DequeueN(100)
	if len(rest) != 5 || rest[0] != 5 || rest[4] != 9 {
		t.Fatalf("unexpected remainder %v", rest)
	}
	if q.DequeueN(1) != nil {
		t.Fatalf("DequeueN on empty queue should return nil")
	}
}
