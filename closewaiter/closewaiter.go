// Package closewaiter coordinates shutting down a resource that is being used concurrently.
// Calls to Do run while the CloseWaiter is open; Close stops admitting new calls, waits for the running ones to
// return and then runs a final close function exactly once.
package closewaiter

import (
	"errors"
	"runtime"
	"sync/atomic"

	"github.com/abevier/tsk/v2/results"
)

const (
	open     = 0
	closed   = 1
	minusOne = ^uint32(0)
)

var (
	ErrClosed = errors.New("closed")
)

type CloseWaiter struct {
	isClosed  uint32
	activeCnt uint32

	closed chan struct{}
}

func New() *CloseWaiter {
	return &CloseWaiter{
		closed: make(chan struct{}),
	}
}

// Do runs f unless Close has been called, in which case f is not run and the returned Result holds ErrClosed.
func (c *CloseWaiter) Do(f func()) results.Result[results.Void, error] {
	atomic.AddUint32(&c.activeCnt, 1)
	defer atomic.AddUint32(&c.activeCnt, minusOne)

	if atomic.LoadUint32(&c.isClosed) == closed {
		return results.Failure[results.Void](ErrClosed)
	}

	f()
	return results.Done[error]()
}

// IsClosed reports whether Close has been called.
func (c *CloseWaiter) IsClosed() bool {
	return atomic.LoadUint32(&c.isClosed) == closed
}

// Close stops admitting calls to Do, waits for the calls in progress and runs f.  Only the first call runs f;
// every call blocks until f has returned.
func (c *CloseWaiter) Close(f func()) {
	if atomic.CompareAndSwapUint32(&c.isClosed, open, closed) {
		go func() {
			for atomic.LoadUint32(&c.activeCnt) != 0 {
				// busy wait while yielding until all calls to Do have exited
				runtime.Gosched()
			}

			f()

			close(c.closed)
		}()
	}

	<-c.closed
}
