package session

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/warpdl/credsync/pkg/logger"
)

// Task is a queued mutating operation. Callers may drop it (fire and
// forget) or Wait for it.
type Task struct {
	op   string
	fn   func() error
	done chan struct{}
	err  error
}

func newTask(op string, fn func() error) *Task {
	return &Task{op: op, fn: fn, done: make(chan struct{})}
}

// Op returns the operation name, e.g. "reconcile".
func (t *Task) Op() string {
	return t.op
}

// Done is closed once the task has run.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task has run and returns its non-fatal write errors.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// writeQueue runs tasks one at a time, in submission order, on a single
// goroutine. Submitting never blocks.
type writeQueue struct {
	mu      sync.Mutex
	pending []*Task
	closed  bool
	wake    chan struct{}
	stopped chan struct{}
	log     logger.Logger
	after   func(*Task)
}

func newWriteQueue(l logger.Logger, after func(*Task)) *writeQueue {
	q := &writeQueue{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		log:     l,
		after:   after,
	}
	go q.run()
	return q
}

func (q *writeQueue) submit(op string, fn func() error) *Task {
	t := newTask(op, fn)
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		t.finish(fmt.Errorf("%s: %w", op, ErrClosed))
		return t
	}
	q.pending = append(q.pending, t)
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return t
}

func (q *writeQueue) run() {
	defer close(q.stopped)
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		t := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mu.Unlock()
		q.exec(t)
	}
}

// exec runs one task, turning a panic into the task's error so the worker
// keeps serving.
func (q *writeQueue) exec(t *Task) {
	var err error
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("PANIC [%s]: %v\n%s", t.op, r, debug.Stack())
			err = fmt.Errorf("%s: panic: %v", t.op, r)
		}
		t.finish(err)
		if q.after != nil {
			q.after(t)
		}
	}()
	err = t.fn()
}

// flush waits for every task submitted before the call.
func (q *writeQueue) flush() {
	_ = q.submit("flush", func() error { return nil }).Wait()
}

// close stops accepting tasks, runs what is pending, and waits for the
// worker to exit.
func (q *writeQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
	<-q.stopped
}
