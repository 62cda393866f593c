// Package futures provides an implementation of a Future which represents an asynchronous computation.
// A Future can be created and then passed around and read by multiple consumers.  This is the key difference
// between a Future and using a channel for an asynchronous computation as a channel value can only be read once.
//
// A completed Future holds a results.Result, so the outcome of the computation can be stored or forwarded
// as a single value.
package futures

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/abevier/tsk/v2/results"
)

var (
	// ErrCanceled is the error reported when a future is completed by calling Cancel
	ErrCanceled = errors.New("future canceled")
)

// FutureFunc is the function signature required to create a Future via FromFunc
type FutureFunc[T any] func() (T, error)

// Future is a structure that represents an asynchronous computation.
// A Future should be created by calling New() or using the FromFunc convience function.
// Once a future has been created it can be completed exactly once.  The first completion value
// wins and all other completions are silently ignored.
//
// The functions Complete, Fail, Cancel and Settle will all complete a future.
// Complete is used in the success case
// Fail is used for signaling that the Future failed with an error
// Cancel is used to signal that the asynchronous computation was canceled
// Settle completes the Future with an already built results.Result
//
// Get and Result are used to extract the outcome from the Future.  If the future has not been
// completed calling them will block until the future completes or until the context is canceled.
// They can be called by multiple go routines simultaneously and they will all receive the same value.
type Future[T any] struct {
	isCompleted uint32
	completed   chan struct{}

	res results.Result[T, error]
}

// New creates a new uncompleted Future that will eventually contain a value of type T which can be anything.
// This future must be manually completed by calling Complete, Fail, Cancel or Settle
func New[T any]() *Future[T] {
	return &Future[T]{
		completed: make(chan struct{}),
	}
}

// NewWithContext creates a new uncompleted Future that is canceled when ctx is done before the Future is completed.
func NewWithContext[T any](ctx context.Context) *Future[T] {
	f := New[T]()

	go func() {
		select {
		case <-ctx.Done():
			f.Cancel()
		case <-f.completed:
		}
	}()

	return f
}

// FromFunc creates a new uncompleted Future that will eventually contain the return value of the provided function.
// The provided function is run asynchronously when this function is invoked.
func FromFunc[T any](do FutureFunc[T]) *Future[T] {
	f := New[T]()

	go func() {
		t, err := do()
		f.Settle(results.New(t, err))
	}()

	return f
}

// Complete completes this Future with the provided value.  If the future has already been completed this call is ignored.
func (f *Future[T]) Complete(value T) {
	f.Settle(results.Success[T, error](value))
}

// Cancel completes this Future with the ErrCanceled error.  If the future has already been completed this call is ignored.
func (f *Future[T]) Cancel() {
	f.Fail(ErrCanceled)
}

// Fail completes this Future with the provided error.  If the future has already been completed this call is ignored.
// A nil error completes the Future successfully with the zero value of T.
func (f *Future[T]) Fail(err error) {
	if err == nil {
		f.Complete(*new(T))
		return
	}
	f.Settle(results.Failure[T](err))
}

// Settle completes this Future with res.  If the future has already been completed this call is ignored.
func (f *Future[T]) Settle(res results.Result[T, error]) {
	if atomic.CompareAndSwapUint32(&f.isCompleted, 0, 1) {
		f.res = res
		close(f.completed)
	}
}

// Get retrieves the value of this Future.  If the future is not yet completed this call will block until the future is
// completed or until the provided context is canceled.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	return f.Result(ctx).Unpack()
}

// Result is like Get but returns the outcome as a results.Result.  If ctx is canceled first the Result holds
// context.Canceled.
func (f *Future[T]) Result(ctx context.Context) results.Result[T, error] {
	select {
	case <-f.completed:
		return f.res
	case <-ctx.Done():
		return results.Failure[T](context.Canceled)
	}
}
