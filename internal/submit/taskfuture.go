package submit

import (
	"context"

	"github.com/abevier/tsk/v2/futures"
	"github.com/abevier/tsk/v2/results"
)

// TaskFuture carries a submitted task to a worker along with the Future its outcome is settled into.
type TaskFuture[T any, R any] struct {
	Ctx    context.Context
	Task   T
	Future *futures.Future[R]
}

func NewTaskFuture[T any, R any](ctx context.Context, task T) TaskFuture[T, R] {
	return TaskFuture[T, R]{
		Ctx:    ctx,
		Task:   task,
		Future: futures.New[R](),
	}
}

// Run runs fn for the task unless the task's context is already done, and settles the Future with the outcome.
func (tf TaskFuture[T, R]) Run(fn func(ctx context.Context, task T) (R, error)) {
	if err := tf.Ctx.Err(); err != nil {
		tf.Future.Fail(err)
		return
	}

	r, err := fn(tf.Ctx, tf.Task)
	tf.Future.Settle(results.New(r, err))
}
