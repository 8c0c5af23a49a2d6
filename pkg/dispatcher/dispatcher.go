package dispatcher

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-breeze/breeze/pkg/errors"
	"github.com/petermattis/goid"
)

// Waker is notified when work is queued so a blocked loop can wake up.
type Waker interface {
	RequestProcessing()
}

// Dispatcher runs queued work on the goroutine that created it.
type Dispatcher struct {
	owner int64
	queue Queue

	captureTraces atomic.Bool

	mu      sync.RWMutex
	waker   Waker
	handler errors.ErrorHandler
}

// New creates a dispatcher owned by the calling goroutine.
func New() *Dispatcher {
	return &Dispatcher{owner: goid.Get()}
}

// Owner returns the id of the owning goroutine.
func (d *Dispatcher) Owner() int64 {
	return d.owner
}

// IsOnOwningThread reports whether the caller runs on the owning goroutine.
func (d *Dispatcher) IsOnOwningThread() bool {
	return goid.Get() == d.owner
}

// SetCaptureTraces enables creation stack capture for new operations. The
// traces appear in aggregate error messages.
func (d *Dispatcher) SetCaptureTraces(enabled bool) {
	d.captureTraces.Store(enabled)
}

// SetWaker registers the waker notified on every enqueue.
func (d *Dispatcher) SetWaker(w Waker) {
	d.mu.Lock()
	d.waker = w
	d.mu.Unlock()
}

// SetErrorHandler sets where failures of immediately run work are reported.
// Nil selects the global handler.
func (d *Dispatcher) SetErrorHandler(h errors.ErrorHandler) {
	d.mu.Lock()
	d.handler = h
	d.mu.Unlock()
}

// RequestProcessing wakes the owning loop, if a waker is registered.
func (d *Dispatcher) RequestProcessing() {
	d.mu.RLock()
	w := d.waker
	d.mu.RUnlock()
	if w != nil {
		w.RequestProcessing()
	}
}

// Queue returns the underlying queue.
func (d *Dispatcher) Queue() *Queue {
	return &d.queue
}

// Invoke runs work at priority p. PreTick work invoked on the owning
// goroutine runs immediately; a failure is reported to the error handler as
// an *errors.OperationError and stays available from the returned
// operation. Anything else is queued.
func (d *Dispatcher) Invoke(work func() error, p Priority) *Operation {
	if !p.Valid() {
		panic(fmt.Sprintf("dispatcher: invalid priority %d", int(p)))
	}
	op := newOperation(d, p, work, 1)
	if p == PreTick && d.IsOnOwningThread() {
		if err := op.invoke(); err != nil {
			d.report(op, err)
		}
		return op
	}
	d.queue.Enqueue(op)
	d.RequestProcessing()
	return op
}

func (d *Dispatcher) report(op *Operation, err error) {
	d.mu.RLock()
	h := d.handler
	d.mu.RUnlock()
	errors.ReportTo(h, &errors.BreezeError{
		Op:   "dispatcher.Invoke(" + op.priority.String() + ")",
		Kind: errors.KindOperation,
		Err: &errors.OperationError{
			ID:            op.id,
			Priority:      op.priority.String(),
			Err:           err,
			CreationTrace: op.trace,
		},
	})
}

// InvokeFunc is Invoke for work that cannot fail.
func (d *Dispatcher) InvokeFunc(fn func(), p Priority) *Operation {
	return d.Invoke(func() error {
		fn()
		return nil
	}, p)
}

// InvokeOperation queues op again. An operation that already ran is reset to
// pending first.
func (d *Dispatcher) InvokeOperation(op *Operation) *Operation {
	if op == nil {
		panic("dispatcher: nil operation")
	}
	if op.Status() != StatusPending {
		op.reset()
	}
	d.queue.Enqueue(op)
	d.RequestProcessing()
	return op
}

// Process drains the bucket for p. It must be called on the owning
// goroutine.
func (d *Dispatcher) Process(p Priority) error {
	if !d.IsOnOwningThread() {
		panic("dispatcher: Process called off the owning goroutine")
	}
	return d.queue.Drain(p)
}

// Pending returns the number of operations waiting at p.
func (d *Dispatcher) Pending(p Priority) int {
	return d.queue.Len(p)
}
