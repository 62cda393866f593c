// Package batch groups individually submitted tasks into batches and runs each batch with a single call.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/abevier/tsk/v2/futures"
	"github.com/abevier/tsk/v2/results"
)

var (
	// ErrBatchResultMismatch is reported to every task of a batch whose run function returned
	// a different number of results than it was given tasks.
	ErrBatchResultMismatch = errors.New("batch result count does not match task count")
	// ErrClosed is reported for tasks submitted after Close.
	ErrClosed = errors.New("batch executor is closed")
)

// RunBatchFunction runs a batch of tasks.  It returns either one Result per task, in task order,
// or an error that fails the whole batch.
type RunBatchFunction[T any, R any] func(tasks []T) ([]results.Result[R, error], error)

type batch[T any, R any] struct {
	id      int
	tasks   []T
	futures []*futures.Future[R]
	timer   *time.Timer
}

func (b *batch[T, R]) add(task T, f *futures.Future[R]) {
	b.tasks = append(b.tasks, task)
	b.futures = append(b.futures, f)
}

func (b *batch[T, R]) fail(err error) {
	for _, f := range b.futures {
		f.Fail(err)
	}
}

// Executor collects submitted tasks into batches of at most MaxSize tasks.  A batch runs when it is full
// or when MaxLinger has passed since its first task was added, whichever happens first.
type Executor[T any, R any] struct {
	m            sync.Mutex
	sequenceNum  int
	currentBatch *batch[T, R]
	isClosed     bool
	running      sync.WaitGroup

	run       RunBatchFunction[T, R]
	maxSize   int
	maxLinger time.Duration
}

// NewExecutor creates an Executor.  It panics if opts are invalid.
func NewExecutor[T any, R any](opts Opts, run RunBatchFunction[T, R]) *Executor[T, R] {
	opts.validate()

	return &Executor[T, R]{
		run:       run,
		maxSize:   opts.MaxSize,
		maxLinger: opts.MaxLinger,
	}
}

// Submit adds task to the current batch and blocks until the batch has run or ctx is canceled.
func (be *Executor[T, R]) Submit(ctx context.Context, task T) (R, error) {
	return be.SubmitF(ctx, task).Get(ctx)
}

// SubmitR is like Submit but returns the outcome as a results.Result.
func (be *Executor[T, R]) SubmitR(ctx context.Context, task T) results.Result[R, error] {
	return be.SubmitF(ctx, task).Result(ctx)
}

// SubmitF adds task to the current batch and returns a Future for its outcome.
// A task whose ctx is already done is not added.
func (be *Executor[T, R]) SubmitF(ctx context.Context, task T) *futures.Future[R] {
	f := futures.New[R]()

	if err := ctx.Err(); err != nil {
		f.Fail(err)
		return f
	}

	be.m.Lock()
	defer be.m.Unlock()

	if be.isClosed {
		f.Fail(ErrClosed)
		return f
	}

	if be.currentBatch == nil {
		be.currentBatch = be.newBatch()
	}
	be.currentBatch.add(task, f)

	if len(be.currentBatch.tasks) >= be.maxSize {
		be.flush()
	}

	return f
}

// Close runs the pending batch, if any, and waits for every batch that is running.
// Tasks submitted after Close fail with ErrClosed.
func (be *Executor[T, R]) Close() {
	be.m.Lock()
	be.isClosed = true
	if be.currentBatch != nil {
		be.flush()
	}
	be.m.Unlock()

	be.running.Wait()
}

// newBatch must be called with be.m held.
func (be *Executor[T, R]) newBatch() *batch[T, R] {
	be.sequenceNum++
	id := be.sequenceNum

	b := &batch[T, R]{
		id:    id,
		tasks: make([]T, 0, be.maxSize),
	}
	b.timer = time.AfterFunc(be.maxLinger, func() {
		be.expireBatch(id)
	})

	return b
}

func (be *Executor[T, R]) expireBatch(batchId int) {
	be.m.Lock()
	defer be.m.Unlock()

	if be.currentBatch != nil && be.currentBatch.id == batchId {
		be.flush()
	}
}

// flush must be called with be.m held and a non-nil current batch.
func (be *Executor[T, R]) flush() {
	b := be.currentBatch
	be.currentBatch = nil
	b.timer.Stop()

	be.running.Add(1)
	go be.runBatch(b)
}

func (be *Executor[T, R]) runBatch(b *batch[T, R]) {
	defer be.running.Done()

	res, err := be.run(b.tasks)
	if err != nil {
		b.fail(err)
		return
	}

	if len(res) != len(b.tasks) {
		b.fail(fmt.Errorf("%w: got %d results for %d tasks", ErrBatchResultMismatch, len(res), len(b.tasks)))
		return
	}

	for i, r := range res {
		b.futures[i].Settle(r)
	}
}
