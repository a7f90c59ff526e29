package fifo

import "testing"

func TestPushPop(t *testing.T) {
	q := New[int](3)
	for i := range 3 {
		if err := q.Push(i); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	if err := q.Push(3); err != ErrFull {
		t.Fatalf("push past capacity: %v, want ErrFull", err)
	}
	for i := range 3 {
		v, err := q.Pop()
		if err != nil || v != i {
			t.Fatalf("pop = %d, %v, want %d", v, err, i)
		}
	}
	if _, err := q.Pop(); err != ErrEmpty {
		t.Fatalf("pop empty: %v, want ErrEmpty", err)
	}
}

func TestWrapAround(t *testing.T) {
	q := New[int](2)
	for i := range 10 {
		if err := q.Push(i); err != nil {
			t.Fatalf("push: %v", err)
		}
		v, err := q.Pop()
		if err != nil || v != i {
			t.Fatalf("pop = %d, %v, want %d", v, err, i)
		}
	}
}

func TestFilter(t *testing.T) {
	q := New[int](4)
	for i := range 4 {
		q.Push(i)
	}
	q.Pop()
	q.Push(4) // queue now 1,2,3,4 wrapped around
	q.Filter(func(v int) bool { return v%2 == 0 })
	if q.Len() != 2 {
		t.Fatalf("filtered len = %d, want 2", q.Len())
	}
	for _, want := range []int{2, 4} {
		v, err := q.Pop()
		if err != nil || v != want {
			t.Fatalf("pop = %d, %v, want %d", v, err, want)
		}
	}
}
