// Package engine provides the cooperative scheduling primitives the window
// controller runs on: a single-goroutine task loop, a time-sliced filter
// scan, and a debounce gate.
//
// Everything posted to a Loop executes on one goroutine, in post order.
// "Suspension" means a unit of work voluntarily re-posts its continuation
// instead of running to completion, so no single task monopolizes the loop
// for longer than one slice's time budget.
package engine

import (
	"context"
	"errors"
	"time"
)

// defaultQueueDepth bounds the loop's pending-task buffer. Writes beyond
// the buffer block the poster, which in practice only throttles a runaway
// event source; the loop itself is never blocked by a full queue.
const defaultQueueDepth = 1024

// ErrLoopClosed is returned when posting to a stopped loop.
var ErrLoopClosed = errors.New("engine: loop closed")

// Loop is a single-threaded cooperative scheduler: an explicit task queue
// drained by one goroutine. State owned by tasks on the loop needs no
// locking because only the loop goroutine ever touches it.
type Loop struct {
	tasks chan func()
	stop  chan struct{}
	done  chan struct{}
}

// NewLoop returns a loop ready to Start.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), defaultQueueDepth),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

// Start begins draining the queue on a dedicated goroutine.
func (l *Loop) Start() {
	go l.run()
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			// Drain whatever is already queued so in-flight work
			// observes a consistent final state, then exit.
			for {
				select {
				case task := <-l.tasks:
					task()
				default:
					return
				}
			}
		case task := <-l.tasks:
			task()
			queueDepth.Set(float64(len(l.tasks)))
		}
	}
}

// Post enqueues task to run on the loop goroutine. It returns ErrLoopClosed
// after Stop.
func (l *Loop) Post(task func()) error {
	select {
	case <-l.stop:
		return ErrLoopClosed
	default:
	}
	select {
	case l.tasks <- task:
		queueDepth.Set(float64(len(l.tasks)))
		return nil
	case <-l.stop:
		return ErrLoopClosed
	}
}

// PostDelayed schedules task onto the loop after d has elapsed. The timer
// fires off-loop and re-enters through Post, so delayed tasks interleave
// with ordinary ones in arrival order.
func (l *Loop) PostDelayed(task func(), d time.Duration) *time.Timer {
	return time.AfterFunc(d, func() {
		_ = l.Post(task)
	})
}

// Barrier posts a no-op task and waits until the loop has executed it,
// guaranteeing every task posted before the barrier has run. Useful for
// read-after-write consistency at the transport edge and in tests.
func (l *Loop) Barrier(ctx context.Context) error {
	ch := make(chan struct{})
	if err := l.Post(func() { close(ch) }); err != nil {
		return err
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// Stop shuts the loop down. Queued tasks are drained; new posts fail with
// ErrLoopClosed. Stop blocks until the loop goroutine exits.
func (l *Loop) Stop() {
	close(l.stop)
	<-l.done
}
