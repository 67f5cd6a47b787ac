// Package mpsc implements an unbounded many-producer single-consumer
// channel. Senders are never backpressured; this trades unbounded
// memory growth for never blocking a caller.
package mpsc

import "sync"

// Chan is an unbounded MPSC channel.
// Send may be called from any number of goroutines;
// TryRecv, Recv and Signal belong to a single consumer.
type Chan[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	signal chan struct{}
}

func New[T any]() *Chan[T] {
	return &Chan[T]{signal: make(chan struct{}, 1)}
}

// Send appends v and wakes the consumer. It never blocks.
// Returns false if the channel was already closed.
func (c *Chan[T]) Send(v T) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.items = append(c.items, v)
	c.mu.Unlock()
	c.wake()
	return true
}

// TryRecv removes and returns the oldest element without blocking.
func (c *Chan[T]) TryRecv() (v T, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	v = c.items[0]
	var zero T
	c.items[0] = zero
	c.items = c.items[1:]
	return v, true
}

// Recv blocks until an element is available.
// Returns ok == false once the channel is closed and drained.
func (c *Chan[T]) Recv() (v T, ok bool) {
	for {
		if v, ok = c.TryRecv(); ok {
			return v, true
		}
		if c.Drained() {
			var zero T
			return zero, false
		}
		<-c.signal
	}
}

// Signal returns a 1-buffered channel that receives a token after
// every Send and after Close. A consumer selecting on it must drain
// with TryRecv: one token may cover any number of buffered elements.
func (c *Chan[T]) Signal() <-chan struct{} {
	return c.signal
}

// Close marks the channel closed. Subsequent Sends return false;
// elements already buffered remain receivable.
// Safe to call from either side, multiple times.
func (c *Chan[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.wake()
}

// Drained reports whether the channel is closed and empty.
func (c *Chan[T]) Drained() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed && len(c.items) == 0
}

func (c *Chan[T]) wake() {
	select {
	case c.signal <- struct{}{}:
	default:
	}
}
