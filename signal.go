package relay

import (
	"context"

	"github.com/craigthings/relay/future"
)

// NotifyFunc constructs a new listener for a [Signal] that calls fn.
// It panics if fn == nil.
func NotifyFunc(fn func()) *Listener[struct{}] {
	if fn == nil {
		panic("relay: nil listener function")
	}
	return &Listener[struct{}]{fn: func(struct{}) { fn() }}
}

// A Signal is a [Relay] that carries no value: dispatching a signal only
// reports that something happened.
//
// A zero Signal is ready for use, but must not be copied after its first use.
type Signal struct {
	r Relay[struct{}]
}

// NewSignal constructs a new empty Signal.
func NewSignal() *Signal { return new(Signal) }

// AddListener registers l to be called on every future dispatch, and returns
// a function that removes it. See [Relay.AddListener].
func (s *Signal) AddListener(l *Listener[struct{}]) (unsubscribe func()) {
	return s.r.AddListener(l)
}

// On registers fn as a new listener, and returns a function that removes it.
func (s *Signal) On(fn func()) (unsubscribe func()) { return s.r.AddListener(NotifyFunc(fn)) }

// RemoveListener removes every registration of l from s.
func (s *Signal) RemoveListener(l *Listener[struct{}]) { s.r.RemoveListener(l) }

// Dispatch calls every registered listener, then resolves every pending
// waiter. See [Relay.Dispatch].
func (s *Signal) Dispatch() { s.r.Dispatch(struct{}{}) }

// Dispose removes all listeners and discards all pending waiters.
func (s *Signal) Dispose() { s.r.Dispose() }

// Next returns a future that is resolved by the next dispatch.
func (s *Signal) Next() *future.Future[struct{}] { return s.r.Next() }

// Then arranges for resolve to be called after the next dispatch, on a
// separate goroutine. The reject callback is never called.
func (s *Signal) Then(resolve func(), reject func(error)) {
	var res func(struct{})
	if resolve != nil {
		res = func(struct{}) { resolve() }
	}
	s.r.Then(res, reject)
}

// Wait blocks until the next dispatch or until ctx ends. It returns nil if
// the signal was dispatched, otherwise the error that ended ctx.
func (s *Signal) Wait(ctx context.Context) error {
	_, err := s.r.Wait(ctx)
	return err
}

// Once returns a future that is resolved by the next dispatch, using a
// temporary listener rather than a waiter. See [Callable.Once].
func (s *Signal) Once() *future.Future[struct{}] { return once(&s.r) }

// Len reports the number of listener registrations in s.
func (s *Signal) Len() int { return s.r.Len() }

// Pending reports the number of waiters that have not yet been resolved.
func (s *Signal) Pending() int { return s.r.Pending() }
