// Package ringbuf provides a fixed-capacity FIFO buffer.
// When the buffer is full, each push evicts the oldest element.
package ringbuf

// Buffer is a bounded FIFO buffer of T. Once Len reaches Cap, every Push
// discards the oldest element to make room. The zero value is not usable;
// construct with New.
//
// Buffer is not safe for concurrent use; callers provide synchronization.
type Buffer[T any] struct {
	items []T
	head  int // index of the oldest element
	size  int
	cap   int
}

// New returns an empty buffer holding at most capacity elements.
// It panics if capacity is not positive.
func New[T any](capacity int) *Buffer[T] {
	if capacity <= 0 {
		panic("ringbuf: capacity must be positive")
	}
	return &Buffer[T]{items: make([]T, capacity), cap: capacity}
}

// Push appends v, evicting the oldest element if the buffer is full.
func (b *Buffer[T]) Push(v T) {
	tail := (b.head + b.size) % b.cap
	b.items[tail] = v
	if b.size < b.cap {
		b.size++
		return
	}
	b.head = (b.head + 1) % b.cap
}

// Items returns a copy of the buffered elements, oldest first.
func (b *Buffer[T]) Items() []T {
	out := make([]T, b.size)
	for i := 0; i < b.size; i++ {
		out[i] = b.items[(b.head+i)%b.cap]
	}
	return out
}

// Last returns a copy of the newest n elements, oldest first.
// If n exceeds Len, all elements are returned.
func (b *Buffer[T]) Last(n int) []T {
	if n <= 0 {
		return nil
	}
	if n > b.size {
		n = b.size
	}
	out := make([]T, n)
	start := b.size - n
	for i := 0; i < n; i++ {
		out[i] = b.items[(b.head+start+i)%b.cap]
	}
	return out
}

// Len returns the number of buffered elements.
func (b *Buffer[T]) Len() int { return b.size }

// Cap returns the buffer capacity.
func (b *Buffer[T]) Cap() int { return b.cap }

// Clear removes all elements, retaining capacity.
func (b *Buffer[T]) Clear() {
	var zero T
	for i := range b.items {
		b.items[i] = zero
	}
	b.head = 0
	b.size = 0
}
