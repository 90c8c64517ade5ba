// Package relay defines a broadcast primitive that combines persistent
// listeners with one-shot waiters for the next value.
//
// A [Relay] delivers each value passed to [Relay.Dispatch] to every listener
// registered at that moment, in registration order, and then resolves every
// pending waiter with the same value. Values are never buffered: a listener
// or waiter that arrives after a dispatch does not observe it.
//
// A [Signal] is a relay that carries no value, and a [Callable] is a relay
// with a single entry point that either subscribes or awaits once.
package relay

import (
	"context"
	"slices"
	"sync"

	"github.com/craigthings/relay/future"
	"github.com/creachadair/mds/stack"
)

// A Listener is a callback registered with a [Relay]. Listeners are compared
// by identity: adding the same *Listener twice registers it twice, and
// removing it removes both registrations.
type Listener[T any] struct {
	fn func(T)
}

// NewListener constructs a new Listener that calls fn. It panics if fn == nil.
func NewListener[T any](fn func(T)) *Listener[T] {
	if fn == nil {
		panic("relay: nil listener function")
	}
	return &Listener[T]{fn: fn}
}

// A Relay broadcasts values of type T to listeners and waiters.
//
// Listeners are persistent: once added, a listener receives every dispatched
// value until it is removed. Waiters are one-shot: a waiter is resolved by the
// first dispatch after it was registered, and then discarded.
//
// A Relay is safe for concurrent use by multiple goroutines. A zero Relay is
// ready for use, but must not be copied after its first use.
type Relay[T any] struct {
	μ       sync.Mutex
	listen  []*Listener[T]
	waiters stack.Stack[*future.Future[T]]
}

// New constructs a new empty Relay.
func New[T any]() *Relay[T] { return new(Relay[T]) }

// AddListener registers l to be called on every future dispatch until it is
// removed. It returns a function that removes l, equivalent to calling
// RemoveListener(l). The returned function may be called any number of times.
func (r *Relay[T]) AddListener(l *Listener[T]) (unsubscribe func()) {
	r.μ.Lock()
	defer r.μ.Unlock()
	r.listen = append(r.listen, l)
	return func() { r.RemoveListener(l) }
}

// On registers fn as a new listener, and returns a function that removes it.
func (r *Relay[T]) On(fn func(T)) (unsubscribe func()) {
	return r.AddListener(NewListener(fn))
}

// RemoveListener removes every registration of l from r. If l is not
// registered, RemoveListener does nothing.
func (r *Relay[T]) RemoveListener(l *Listener[T]) {
	r.μ.Lock()
	defer r.μ.Unlock()

	// N.B. Build a new slice rather than filtering in place, so that a
	// dispatch in progress keeps a consistent view of the old one.
	var keep []*Listener[T]
	for _, cur := range r.listen {
		if cur != l {
			keep = append(keep, cur)
		}
	}
	r.listen = keep
}

// Dispatch delivers v to every listener registered with r, in registration
// order, and then resolves every pending waiter with v, most recent first.
//
// Listeners run on the calling goroutine and have all returned before
// Dispatch returns. Listeners see the registrations as of the start of the
// call: a listener added during a dispatch is not called by that dispatch,
// and a listener removed during a dispatch is still called by it. Waiters
// registered by a listener during the dispatch are resolved by it.
func (r *Relay[T]) Dispatch(v T) {
	r.μ.Lock()
	snap := slices.Clone(r.listen)
	r.μ.Unlock()

	for _, l := range snap {
		l.fn(v)
	}

	r.μ.Lock()
	var ready []*future.Future[T]
	for {
		w, ok := r.waiters.Pop()
		if !ok {
			break
		}
		ready = append(ready, w)
	}
	r.μ.Unlock()

	for _, w := range ready {
		w.Resolve(v)
	}
}

// Dispose removes all listeners and discards all pending waiters. Discarded
// waiters are neither resolved nor rejected, so anything awaiting them waits
// forever. After Dispose, r is empty and may be used again.
func (r *Relay[T]) Dispose() {
	r.μ.Lock()
	defer r.μ.Unlock()
	r.listen = nil
	r.waiters.Clear()
}

// Next registers a new waiter and returns a future that is resolved with the
// value of the next dispatch. The future is never rejected.
//
// There is no way to withdraw a waiter: it stays pending until the next call
// to Dispatch resolves it or Dispose discards it.
func (r *Relay[T]) Next() *future.Future[T] {
	f := future.New[T]()
	r.μ.Lock()
	defer r.μ.Unlock()
	r.waiters.Add(f)
	return f
}

// Then registers a new waiter, and arranges for resolve to be called with the
// value of the next dispatch, on a separate goroutine. The relay itself never
// rejects a waiter, so reject is never called; it is accepted so that a Relay
// has the same shape as a [future.Future]. Either callback may be nil.
func (r *Relay[T]) Then(resolve func(T), reject func(error)) {
	r.Next().Then(resolve, reject)
}

// Wait blocks until the next dispatch or until ctx ends, and returns the
// dispatched value. If ctx ends first, Wait returns a zero value and the
// error that ended ctx.
func (r *Relay[T]) Wait(ctx context.Context) (T, error) { return r.Next().Wait(ctx) }

// Len reports the number of listener registrations in r.
func (r *Relay[T]) Len() int {
	r.μ.Lock()
	defer r.μ.Unlock()
	return len(r.listen)
}

// Pending reports the number of waiters that have not yet been resolved.
func (r *Relay[T]) Pending() int {
	r.μ.Lock()
	defer r.μ.Unlock()
	return r.waiters.Len()
}
