// Package future provides one-shot settlement primitives for deferred
// application state, such as the shell layout restoration signal.
package future

import (
	"context"
	"sync"
	"time"
)

// FrameInterval is the UI refresh tick used by NextFrame.
// One frame at 60fps, matching the render cadence of the Bubble Tea program.
const FrameInterval = time.Second / 60

// Future is a one-shot container that settles exactly once, either with a
// value or with an error. All methods are safe for concurrent use.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	settled   bool
	callbacks []func(T, error)
}

// New creates an unsettled future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolved creates a future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f := New[T]()
	f.Resolve(v)
	return f
}

// Failed creates a future already settled with err.
func Failed[T any](err error) *Future[T] {
	f := New[T]()
	f.Reject(err)
	return f
}

// NextFrame creates a future that resolves with v after one frame interval.
// The timer is scheduled once and cannot be cancelled.
func NextFrame[T any](v T) *Future[T] {
	f := New[T]()
	time.AfterFunc(FrameInterval, func() { f.Resolve(v) })
	return f
}

// Resolve settles the future with a value. Only the first settlement wins;
// later calls report false and are ignored.
func (f *Future[T]) Resolve(v T) bool {
	return f.settle(v, nil)
}

// Reject settles the future with an error. Only the first settlement wins.
func (f *Future[T]) Reject(err error) bool {
	var zero T
	return f.settle(zero, err)
}

func (f *Future[T]) settle(v T, err error) bool {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return false
	}
	f.settled = true
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(v, err)
	}
	return true
}

// Done returns a channel closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Settled reports whether the future has settled.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Peek returns the settlement without blocking. ok is false while unsettled.
func (f *Future[T]) Peek() (v T, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.err, f.settled
}

// Wait blocks until the future settles or ctx is cancelled.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnSettle registers a callback invoked with the settlement. If the future
// has already settled the callback runs immediately on the calling
// goroutine; otherwise it runs on the goroutine that settles the future.
func (f *Future[T]) OnSettle(cb func(T, error)) {
	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	v, err := f.value, f.err
	f.mu.Unlock()
	cb(v, err)
}

// Absorb derives a future from src that settles via fallback regardless of
// how src settles. When src resolves or rejects, fallback is invoked and its
// resolution is adopted. Failures are absorbed on both arms: if fallback's
// future rejects, the derived future resolves with the zero value. The
// returned future never rejects.
func Absorb[T, U any](src *Future[U], fallback func() *Future[T]) *Future[T] {
	out := New[T]()
	src.OnSettle(func(U, error) {
		fallback().OnSettle(func(v T, err error) {
			if err != nil {
				var zero T
				out.Resolve(zero)
				return
			}
			out.Resolve(v)
		})
	})
	return out
}
