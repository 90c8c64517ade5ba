// Package future defines a write-once deferred value that can be awaited by
// multiple goroutines.
package future

import (
	"context"
	"errors"
	"sync"
)

// ErrPending is reported by [Future.Result] for a future that has not yet
// been settled.
var ErrPending = errors.New("future is not settled")

// A Future is a deferred value of type T that is settled exactly once, either
// with a value by [Future.Resolve] or with an error by [Future.Reject].
//
// A future with no settlement remains pending forever; nothing times out.
// A zero Future is ready for use, but must not be copied after first use.
type Future[T any] struct {
	μ       sync.Mutex
	ready   chan struct{} // closed when settled; lazily initialized
	settled bool
	value   T
	err     error
}

// New constructs a new unsettled Future.
func New[T any]() *Future[T] { return &Future[T]{ready: make(chan struct{})} }

// Resolve settles f with the value v, and reports whether this call settled
// f (true) or f was already settled (false).
func (f *Future[T]) Resolve(v T) bool { return f.settle(v, nil) }

// Reject settles f with the error err, and reports whether this call settled
// f (true) or f was already settled (false). Reject panics if err == nil.
func (f *Future[T]) Reject(err error) bool {
	if err == nil {
		panic("future: reject with nil error")
	}
	var zero T
	return f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) bool {
	f.μ.Lock()
	defer f.μ.Unlock()
	if f.settled {
		return false
	}
	f.value, f.err, f.settled = v, err, true
	close(f.readyLocked())
	return true
}

func (f *Future[T]) readyLocked() chan struct{} {
	if f.ready == nil {
		f.ready = make(chan struct{})
	}
	return f.ready
}

// Ready returns a channel that is closed when f is settled. If f is already
// settled when Ready is called, the returned channel is already closed.
func (f *Future[T]) Ready() <-chan struct{} {
	f.μ.Lock()
	defer f.μ.Unlock()
	return f.readyLocked()
}

// Result reports the value and error f was settled with. If f is not yet
// settled, Result returns a zero value and [ErrPending].
func (f *Future[T]) Result() (T, error) {
	f.μ.Lock()
	defer f.μ.Unlock()
	if !f.settled {
		var zero T
		return zero, ErrPending
	}
	return f.value, f.err
}

// Wait blocks until f is settled or ctx ends. If f settles first, Wait
// returns its value and error; otherwise it returns a zero value and the
// error that ended ctx.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-f.Ready():
		return f.Result()
	}
}

// Then arranges for resolve or reject to be called after f settles, with the
// value or error respectively. Either callback may be nil, in which case that
// outcome is ignored.
//
// The callback runs on a new goroutine, never on the goroutine that settles
// f. If f is never settled, the goroutine waits forever.
func (f *Future[T]) Then(resolve func(T), reject func(error)) {
	ready := f.Ready()
	go func() {
		<-ready
		v, err := f.Result()
		if err != nil {
			if reject != nil {
				reject(err)
			}
		} else if resolve != nil {
			resolve(v)
		}
	}()
}
