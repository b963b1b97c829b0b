package logger

import "sync"

// RingBuffer is a thread-safe fixed-capacity buffer that evicts the oldest
// item once full.
type RingBuffer[T any] struct {
	items    []T
	start    int
	count    int
	capacity int
	mu       sync.RWMutex
}

// NewRingBuffer creates a ring buffer holding at most capacity items.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Push appends an item, evicting the oldest one when the buffer is full.
func (r *RingBuffer[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count < r.capacity {
		r.items[(r.start+r.count)%r.capacity] = item
		r.count++
		return
	}
	r.items[r.start] = item
	r.start = (r.start + 1) % r.capacity
}

// All returns the buffered items in insertion order, oldest first.
func (r *RingBuffer[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.items[(r.start+i)%r.capacity]
	}
	return out
}

// Len returns the current number of buffered items.
func (r *RingBuffer[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
