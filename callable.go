package relay

import "github.com/craigthings/relay/future"

// A Callable is a [Relay] with a single entry point, [Callable.Invoke], that
// either subscribes a callback or awaits the next value. All the methods of
// the underlying Relay are available on a Callable.
type Callable[T any] struct {
	*Relay[T]
}

// NewCallable constructs a new Callable around a new empty [Relay].
func NewCallable[T any]() *Callable[T] { return &Callable[T]{Relay: New[T]()} }

// Invoke subscribes fn if it is non-nil, returning a function that removes
// it, as [Callable.Call] does. If fn == nil, Invoke instead returns a future
// for the next dispatched value, as [Callable.Once] does.
func (c *Callable[T]) Invoke(fn func(T)) (unsubscribe func(), next *future.Future[T]) {
	if fn != nil {
		return c.Call(fn), nil
	}
	return nil, c.Once()
}

// Call registers fn as a new listener, and returns a function that removes it.
func (c *Callable[T]) Call(fn func(T)) (unsubscribe func()) { return c.On(fn) }

// Once returns a future that is resolved with the value of the next dispatch.
//
// Unlike [Relay.Next], Once does not register a waiter. It adds a listener
// that resolves the future and then removes itself, so it runs in listener
// order and is not counted by Pending.
func (c *Callable[T]) Once() *future.Future[T] { return once(c.Relay) }

func once[T any](r *Relay[T]) *future.Future[T] {
	f := future.New[T]()
	l := new(Listener[T])
	l.fn = func(v T) {
		f.Resolve(v)
		r.RemoveListener(l)
	}
	r.AddListener(l)
	return f
}
