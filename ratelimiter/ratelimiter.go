// Package ratelimiter runs submitted tasks no faster than a configured rate.
package ratelimiter

import (
	"context"

	"github.com/abevier/tsk/v2/futures"
	"github.com/abevier/tsk/v2/internal/submit"
	"github.com/abevier/tsk/v2/results"
	"golang.org/x/time/rate"
)

type RunFunction[T any, R any] func(ctx context.Context, task T) (R, error)

// RateLimiter admits submitted tasks through a token bucket and runs each admitted task on its own goroutine.
type RateLimiter[T any, R any] struct {
	limiter  *rate.Limiter
	taskChan chan submit.TaskFuture[T, R]

	submit submit.SubmitFunction[T, R]
	run    RunFunction[T, R]
}

// New creates a RateLimiter and starts its worker.  It panics if opts are invalid.
func New[T any, R any](opts Opts, run RunFunction[T, R]) *RateLimiter[T, R] {
	opts.validate()

	rl := &RateLimiter[T, R]{
		limiter:  rate.NewLimiter(opts.Limit, opts.Burst),
		taskChan: make(chan submit.TaskFuture[T, R], opts.MaxQueueDepth),
		submit:   submit.GetSubmitFunction[T, R](submit.FullQueueStrategy(opts.FullQueueStrategy)),
		run:      run,
	}

	rl.startWorker()

	return rl
}

func (rl *RateLimiter[T, R]) startWorker() {
	go func() {
		for tf := range rl.taskChan {
			if err := rl.limiter.Wait(tf.Ctx); err != nil {
				tf.Future.Fail(err)
				continue
			}

			go tf.Run(rl.run)
		}
	}()
}

// Submit submits task and blocks until it has run or ctx is canceled.
func (rl *RateLimiter[T, R]) Submit(ctx context.Context, task T) (R, error) {
	f := rl.SubmitF(ctx, task)
	return f.Get(ctx)
}

// SubmitR is like Submit but returns the outcome as a results.Result.
func (rl *RateLimiter[T, R]) SubmitR(ctx context.Context, task T) results.Result[R, error] {
	return rl.SubmitF(ctx, task).Result(ctx)
}

// SubmitF submits task and returns a Future for its outcome without waiting.
func (rl *RateLimiter[T, R]) SubmitF(ctx context.Context, task T) *futures.Future[R] {
	tf := submit.NewTaskFuture[T, R](ctx, task)
	submit.Enqueue(rl.submit, rl.taskChan, tf)
	return tf.Future
}

// WARNING If this is called twice or Submit is called after calling Close it will panic
func (rl *RateLimiter[T, R]) Close() {
	close(rl.taskChan)
}
