// Package broadcast provides a bounded multi-subscriber channel.
//
// Every receiver gets its own bounded queue. A publisher never blocks: when a
// receiver's queue is full the oldest entry is dropped and the receiver is
// told how many messages it missed on its next Recv. Receivers only see
// messages published after they subscribed; there is no replay.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrClosed is returned by Recv once the broadcaster is closed and the
// receiver's queue has been drained.
var ErrClosed = errors.New("broadcast closed")

// LagError reports that a receiver fell behind and lost messages.
// The receiver keeps its subscription and continues from the oldest
// message still buffered.
type LagError struct {
	Missed uint64
}

func (e *LagError) Error() string {
	return fmt.Sprintf("receiver lagged behind, %d messages dropped", e.Missed)
}

type Broadcaster[T any] struct {
	mu        sync.Mutex
	capacity  int
	receivers map[*Receiver[T]]struct{}
	closed    bool
}

func New[T any](capacity int) *Broadcaster[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Broadcaster[T]{
		capacity:  capacity,
		receivers: make(map[*Receiver[T]]struct{}),
	}
}

// Subscribe registers a new receiver. Subscribing to a closed broadcaster
// yields a receiver whose Recv immediately reports ErrClosed.
func (b *Broadcaster[T]) Subscribe() *Receiver[T] {
	r := &Receiver[T]{
		parent: b,
		notify: make(chan struct{}, 1),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		r.closed = true
		return r
	}
	b.receivers[r] = struct{}{}
	return r
}

// Send publishes v to every active receiver without blocking.
func (b *Broadcaster[T]) Send(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for r := range b.receivers {
		r.push(v, b.capacity)
	}
}

// Close marks the end of the stream. Receivers drain their queues, then
// observe ErrClosed. Close is idempotent.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for r := range b.receivers {
		r.markClosed()
		delete(b.receivers, r)
	}
}

type Receiver[T any] struct {
	parent *Broadcaster[T]

	mu     sync.Mutex
	queue  []T
	missed uint64
	closed bool
	notify chan struct{}
}

func (r *Receiver[T]) push(v T, capacity int) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if len(r.queue) == capacity {
		r.queue = r.queue[1:]
		r.missed++
	}
	r.queue = append(r.queue, v)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

func (r *Receiver[T]) markClosed() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Recv returns the next message. A *LagError is reported before resuming
// delivery whenever messages were dropped. Recv returns ErrClosed after the
// broadcaster is closed and the queue is drained, or the context error if
// ctx ends first.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	for {
		r.mu.Lock()
		if r.missed > 0 {
			missed := r.missed
			r.missed = 0
			r.mu.Unlock()
			return zero, &LagError{Missed: missed}
		}
		if len(r.queue) > 0 {
			v := r.queue[0]
			r.queue = r.queue[1:]
			r.mu.Unlock()
			return v, nil
		}
		if r.closed {
			r.mu.Unlock()
			return zero, ErrClosed
		}
		r.mu.Unlock()

		select {
		case <-r.notify:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Close drops the subscription. Pending messages are discarded.
func (r *Receiver[T]) Close() {
	r.parent.mu.Lock()
	delete(r.parent.receivers, r)
	r.parent.mu.Unlock()
	r.markClosed()
}
