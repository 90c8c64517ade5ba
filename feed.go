package relay

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is the sentinel error reported by a feed that is already closed.
var ErrClosed = errors.New("feed is closed")

// A Feed delivers the values dispatched by a [Relay] to a channel.
//
// Delivery never blocks the dispatcher: if the channel buffer is full when a
// value is dispatched, the value is discarded and counted by Dropped.
type Feed[T any] struct {
	// μ protects the fields below:
	// Lock μ shared to send to ch.
	// Lock μ exclusively to close ch.
	μ      sync.RWMutex
	ch     chan T
	closed bool

	drop  atomic.Int64
	unsub func() // removes the feed listener from its relay
}

// Feed registers a listener that forwards each dispatched value to a new
// [Feed] whose channel has the specified buffer capacity. If cap == 0, a
// value is delivered only if a receiver is ready at the moment of dispatch.
//
// If r is disposed, the feed stops receiving values but its channel remains
// open until the feed is closed.
func (r *Relay[T]) Feed(cap int) *Feed[T] {
	f := &Feed[T]{ch: make(chan T, cap)}
	f.unsub = r.On(f.send)
	return f
}

func (f *Feed[T]) send(v T) {
	f.μ.RLock()
	defer f.μ.RUnlock()
	if f.closed {
		return // a dispatch raced with Close
	}
	select {
	case f.ch <- v:
	default:
		f.drop.Add(1)
	}
}

// Recv returns the channel to which dispatched values are delivered.
// The channel is closed when f is closed.
func (f *Feed[T]) Recv() <-chan T { return f.ch }

// Dropped reports the number of values discarded because the channel was
// not ready to accept them.
func (f *Feed[T]) Dropped() int64 { return f.drop.Load() }

// Close removes f from its relay and closes its channel. If f is already
// closed, Close returns ErrClosed.
func (f *Feed[T]) Close() error {
	f.unsub()

	f.μ.Lock()
	defer f.μ.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	close(f.ch)
	return nil
}
