// Package fifo provides a fixed-capacity ring queue that never allocates
// after construction, usable before any dynamic-memory subsystem exists.
package fifo

import "errors"

var (
	ErrFull  = errors.New("fifo: queue full")
	ErrEmpty = errors.New("fifo: queue empty")
)

// Queue is a bounded FIFO. It is not safe for concurrent use; callers
// provide their own locking.
type Queue[T any] struct {
	buf   []T
	head  int
	count int
}

// New returns a queue holding up to capacity elements.
func New[T any](capacity int) *Queue[T] {
	return &Queue[T]{buf: make([]T, capacity)}
}

// Len reports the number of queued elements.
func (q *Queue[T]) Len() int { return q.count }

// Empty reports whether the queue holds no elements.
func (q *Queue[T]) Empty() bool { return q.count == 0 }

// Full reports whether the queue is at capacity.
func (q *Queue[T]) Full() bool { return q.count == len(q.buf) }

// Push appends v, or returns ErrFull.
func (q *Queue[T]) Push(v T) error {
	if q.Full() {
		return ErrFull
	}
	q.buf[(q.head+q.count)%len(q.buf)] = v
	q.count++
	return nil
}

// Pop removes and returns the oldest element, or returns ErrEmpty.
func (q *Queue[T]) Pop() (T, error) {
	var zero T
	if q.count == 0 {
		return zero, ErrEmpty
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return v, nil
}

// Filter keeps only elements for which keep returns true, preserving
// order.
func (q *Queue[T]) Filter(keep func(T) bool) {
	n := q.count
	src := q.head
	q.count = 0
	dst := q.head
	var zero T
	for range n {
		v := q.buf[src]
		q.buf[src] = zero
		src = (src + 1) % len(q.buf)
		if keep(v) {
			q.buf[dst] = v
			dst = (dst + 1) % len(q.buf)
			q.count++
		}
	}
}
