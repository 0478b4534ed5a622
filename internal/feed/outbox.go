package feed

import (
	"sync"
)

// Outbox is a thread-safe ring buffer that automatically doubles its
// capacity when it reaches 70% full. Each subscriber owns one, so a slow
// WebSocket peer buffers its own backlog instead of blocking publishers.
type Outbox[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	buf      []T
	head     int // read position
	tail     int // write position
	count    int
	capacity int
	closed   bool
}

// NewOutbox creates a new outbox with the given initial capacity.
func NewOutbox[T any](initialCapacity int) *Outbox[T] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	o := &Outbox[T]{
		buf:      make([]T, initialCapacity),
		capacity: initialCapacity,
	}
	o.cond = sync.NewCond(&o.mu)
	return o
}

// Send adds an item to the outbox. Grows the buffer if at 70% capacity.
// Returns false if the outbox is closed.
func (o *Outbox[T]) Send(item T) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return false
	}

	threshold := (o.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if o.count+1 >= threshold {
		o.grow()
	}

	o.buf[o.tail] = item
	o.tail = (o.tail + 1) % o.capacity
	o.count++

	o.cond.Signal()
	return true
}

// Receive removes and returns an item from the outbox.
// Blocks until an item is available or the outbox is closed.
// Returns the item and true, or zero value and false if closed and empty.
func (o *Outbox[T]) Receive() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for o.count == 0 && !o.closed {
		o.cond.Wait()
	}

	if o.count == 0 && o.closed {
		var zero T
		return zero, false
	}

	item := o.buf[o.head]
	var zero T
	o.buf[o.head] = zero // Clear reference for GC
	o.head = (o.head + 1) % o.capacity
	o.count--

	return item, true
}

// Close closes the outbox. After closing, Send returns false.
// Receivers drain remaining items then get the closed signal.
func (o *Outbox[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.closed = true
	o.cond.Broadcast()
}

// Len returns the current number of buffered items.
func (o *Outbox[T]) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.count
}

// Cap returns the current capacity.
func (o *Outbox[T]) Cap() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.capacity
}

// grow doubles the capacity. Must be called with lock held.
func (o *Outbox[T]) grow() {
	newCapacity := o.capacity * 2
	newBuf := make([]T, newCapacity)

	if o.count > 0 {
		if o.head < o.tail {
			copy(newBuf, o.buf[o.head:o.tail])
		} else {
			n := copy(newBuf, o.buf[o.head:])
			copy(newBuf[n:], o.buf[:o.tail])
		}
	}

	o.buf = newBuf
	o.head = 0
	o.tail = o.count
	o.capacity = newCapacity
}
