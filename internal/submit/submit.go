// Package submit holds the task envelope shared by the executors and the strategies used to hand a task
// to a bounded queue.
package submit

import (
	"context"
	"errors"
	"log"

	"github.com/abevier/tsk/v2/results"
)

var (
	ErrQueueFull = errors.New("task queue is full")
)

// FullQueueStrategy selects what happens when a task is submitted to a full queue.
type FullQueueStrategy int

const (
	BlockWhenFull FullQueueStrategy = iota
	ErrorWhenFull
)

// Outcome is the result of handing a task to a queue.  It carries no value.
type Outcome = results.Result[results.Void, error]

type SubmitFunction[T any, R any] func(taskChan chan<- TaskFuture[T, R], tf TaskFuture[T, R]) Outcome

func GetSubmitFunction[T any, R any](s FullQueueStrategy) SubmitFunction[T, R] {
	switch s {
	case BlockWhenFull:
		return blockWhenFullStrategy[T, R]
	case ErrorWhenFull:
		return errorWhenFullStrategy[T, R]
	default:
		log.Panicf("invalid submit strategy value %d", s)
	}
	return blockWhenFullStrategy[T, R]
}

// Enqueue hands tf to taskChan using the strategy s.  If the task could not be queued its Future is failed
// with the reason.
func Enqueue[T any, R any](s SubmitFunction[T, R], taskChan chan<- TaskFuture[T, R], tf TaskFuture[T, R]) {
	if out := s(taskChan, tf); out.IsFailure() {
		tf.Future.Fail(out.Error())
	}
}

func blockWhenFullStrategy[T any, R any](taskChan chan<- TaskFuture[T, R], t TaskFuture[T, R]) Outcome {
	select {
	case taskChan <- t:
		return results.Done[error]()
	case <-t.Ctx.Done():
		return results.Failure[results.Void](context.Canceled)
	}
}

func errorWhenFullStrategy[T any, R any](taskChan chan<- TaskFuture[T, R], t TaskFuture[T, R]) Outcome {
	select {
	case taskChan <- t:
		return results.Done[error]()
	default:
		return results.Failure[results.Void](ErrQueueFull)
	}
}
