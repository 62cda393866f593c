// Package results provides Result, a value that holds either a success value of type T or an error value of type E.
// A Result is meant to be returned from fallible operations and passed around by value.  It is immutable once
// constructed: which slot it occupies is decided by the constructor and never changes.
//
// Operations that have nothing to return on success use Void as T:
//
//	func remove(key string) results.Result[results.Void, error] {
//		if err := store.Delete(key); err != nil {
//			return results.Failure[results.Void](err)
//		}
//		return results.Done[error]()
//	}
package results

import "fmt"

// Void is the payload of a Result for an operation that produces no value.
type Void struct{}

type slot uint8

const (
	valueSlot slot = iota
	errorSlot
)

// Result holds either a value of type T or an error of type E.
//
// The zero value of E is the "no error" sentinel.  A Result whose error slot holds the sentinel reports success,
// so a Result built with Failure(NoError[E]()) is indistinguishable from a successful one by IsSuccess and Error.
// It still holds no value, so Get panics on it unless T is Void.
//
// The zero Result holds the zero value of T and is a success.
type Result[T any, E comparable] struct {
	tag   slot
	value T
	err   E
}

// NoError returns the sentinel E that stands for "no error".
func NoError[E comparable]() E {
	var zero E
	return zero
}

// Success creates a Result holding val.
func Success[T any, E comparable](val T) Result[T, E] {
	return Result[T, E]{tag: valueSlot, value: val}
}

// Failure creates a Result holding err.  It works the same way for every T, including Void.
// The error is stored as is; passing the sentinel yields a Result that reports success.
func Failure[T any, E comparable](err E) Result[T, E] {
	return Result[T, E]{tag: errorSlot, err: err}
}

// New creates a Result from the usual (value, error) pair.  If err is the sentinel the Result holds val,
// otherwise it holds err and val is discarded.
func New[T any, E comparable](val T, err E) Result[T, E] {
	if err != NoError[E]() {
		return Failure[T](err)
	}
	return Success[T, E](val)
}

// Done creates a successful Result for an operation with no payload.
func Done[E comparable]() Result[Void, E] {
	return Result[Void, E]{}
}

// IsSuccess reports whether r holds a value or an error equal to the sentinel.
func (r Result[T, E]) IsSuccess() bool {
	return r.tag == valueSlot || r.err == NoError[E]()
}

// IsFailure reports whether r holds an error other than the sentinel.
func (r Result[T, E]) IsFailure() bool {
	return !r.IsSuccess()
}

// Error returns the stored error, or the sentinel when r is a success.
func (r Result[T, E]) Error() E {
	if r.IsSuccess() {
		return NoError[E]()
	}
	return r.err
}

// Get returns the stored value.
//
// Calling Get on a Result that holds an error is a programming error and panics with an *AccessError.
// A Result with a Void payload never panics.
func (r Result[T, E]) Get() T {
	if r.tag == valueSlot {
		return r.value
	}
	if _, ok := any(r.value).(Void); ok {
		return r.value
	}
	panic(&AccessError{Err: r.err})
}

// Value returns the stored value and true, or the zero T and false if r holds an error.
// Like Get, a Void payload is always available.
func (r Result[T, E]) Value() (T, bool) {
	if r.tag == valueSlot {
		return r.value, true
	}
	_, ok := any(r.value).(Void)
	return r.value, ok
}

// Unpack returns the stored value (zero T if none) together with Error.
func (r Result[T, E]) Unpack() (T, E) {
	return r.value, r.Error()
}

// AccessError is the panic value raised by Get when a Result holds no value.
type AccessError struct {
	// Err is the error held by the Result.
	Err any
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("results: Get called on a failed result: %v", e.Err)
}

// Unwrap returns the held error when E is itself an error type.
func (e *AccessError) Unwrap() error {
	err, _ := e.Err.(error)
	return err
}
