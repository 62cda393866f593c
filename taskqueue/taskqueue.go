// Package taskqueue runs submitted tasks on a fixed number of workers fed by a bounded queue.
package taskqueue

import (
	"context"
	"sync"

	"github.com/abevier/tsk/v2/closewaiter"
	"github.com/abevier/tsk/v2/futures"
	"github.com/abevier/tsk/v2/internal/submit"
	"github.com/abevier/tsk/v2/results"
)

type RunFunction[T any, R any] func(ctx context.Context, task T) (R, error)

type TaskQueue[T any, R any] struct {
	run      RunFunction[T, R]
	taskChan chan submit.TaskFuture[T, R]
	submit   submit.SubmitFunction[T, R]

	cw      *closewaiter.CloseWaiter
	workers sync.WaitGroup
}

// New creates a TaskQueue and starts opts.MaxWorkers workers.  It panics if opts are invalid.
func New[T any, R any](opts Opts, run RunFunction[T, R]) *TaskQueue[T, R] {
	opts.validate()

	tq := &TaskQueue[T, R]{
		run:      run,
		taskChan: make(chan submit.TaskFuture[T, R], opts.MaxQueueDepth),
		submit:   submit.GetSubmitFunction[T, R](submit.FullQueueStrategy(opts.FullQueueStrategy)),
		cw:       closewaiter.New(),
	}

	for i := 0; i < opts.MaxWorkers; i++ {
		tq.workers.Add(1)
		go tq.worker(i)
	}

	return tq
}

func (tq *TaskQueue[T, R]) worker(id int) {
	defer tq.workers.Done()

	for tf := range tq.taskChan {
		tf.Ctx = withWorkerID(tf.Ctx, id)
		tf.Run(tq.run)
	}
}

// Submit submits task and blocks until a worker has run it or ctx is canceled.
func (tq *TaskQueue[T, R]) Submit(ctx context.Context, task T) (R, error) {
	return tq.SubmitF(ctx, task).Get(ctx)
}

// SubmitR is like Submit but returns the outcome as a results.Result.
func (tq *TaskQueue[T, R]) SubmitR(ctx context.Context, task T) results.Result[R, error] {
	return tq.SubmitF(ctx, task).Result(ctx)
}

// SubmitF submits task and returns a Future for its outcome without waiting for a worker.
// If the queue has been closed the Future fails with ErrStopped.
func (tq *TaskQueue[T, R]) SubmitF(ctx context.Context, task T) *futures.Future[R] {
	tf := submit.NewTaskFuture[T, R](ctx, task)

	res := tq.cw.Do(func() {
		submit.Enqueue(tq.submit, tq.taskChan, tf)
	})
	if res.IsFailure() {
		tf.Future.Fail(ErrStopped)
	}

	return tf.Future
}

// Close stops accepting tasks, lets the workers drain the queue and waits for them to exit.
// It is safe to call Close more than once.
func (tq *TaskQueue[T, R]) Close() {
	tq.cw.Close(func() {
		close(tq.taskChan)
	})
	tq.workers.Wait()
}
