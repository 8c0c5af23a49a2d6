package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-breeze/breeze/pkg/errors"
	"github.com/google/uuid"
)

// Status is the lifecycle state of an Operation. Completed states share the
// Completed bit.
type Status uint32

const (
	StatusPending          Status = 0b000001
	StatusAborted          Status = 0b000010
	StatusCompleted        Status = 0b000100
	StatusCompletedSuccess Status = 0b001100
	StatusCompletedFailed  Status = 0b010100
	StatusExecuting        Status = 0b100000
)

// IsCompleted reports whether s is CompletedSuccess or CompletedFailed.
func (s Status) IsCompleted() bool {
	return s&StatusCompleted != 0
}

// IsTerminal reports whether the operation has finished running.
func (s Status) IsTerminal() bool {
	return s.IsCompleted() || s == StatusAborted
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusAborted:
		return "aborted"
	case StatusCompletedSuccess:
		return "completed-success"
	case StatusCompletedFailed:
		return "completed-failed"
	case StatusExecuting:
		return "executing"
	default:
		return fmt.Sprintf("Status(%#b)", uint32(s))
	}
}

// Operation is a unit of work queued on a Dispatcher.
type Operation struct {
	id         string
	dispatcher *Dispatcher
	priority   Priority
	work       func() error
	created    time.Time
	trace      string

	status  atomic.Uint32
	aborted atomic.Bool

	mu   sync.Mutex
	err  error
	done chan struct{}
}

// NewOperation creates a pending operation bound to d. Nothing is queued
// until the operation is passed to InvokeOperation.
func NewOperation(d *Dispatcher, p Priority, work func() error) *Operation {
	return newOperation(d, p, work, 1)
}

func newOperation(d *Dispatcher, p Priority, work func() error, skip int) *Operation {
	op := &Operation{
		id:         uuid.NewString(),
		dispatcher: d,
		priority:   p,
		work:       work,
		created:    time.Now(),
	}
	if d != nil && d.captureTraces.Load() {
		op.trace = errors.CaptureStackSkip(skip)
	}
	op.reset()
	return op
}

// ID returns the operation's unique identifier.
func (op *Operation) ID() string { return op.id }

// Dispatcher returns the owning dispatcher.
func (op *Operation) Dispatcher() *Dispatcher { return op.dispatcher }

// Priority returns the phase the operation runs in.
func (op *Operation) Priority() Priority { return op.priority }

// Created returns when the operation was constructed.
func (op *Operation) Created() time.Time { return op.created }

// CreationTrace returns the stack captured at construction, empty unless the
// dispatcher captures traces.
func (op *Operation) CreationTrace() string { return op.trace }

// Status returns the current lifecycle state.
func (op *Operation) Status() Status {
	return Status(op.status.Load())
}

// Abort requests the operation be treated as aborted. A running operation is
// not interrupted; it ends Aborted instead of CompletedSuccess.
func (op *Operation) Abort() {
	op.aborted.Store(true)
}

// IsAborted reports whether Abort has been called since the last reset.
func (op *Operation) IsAborted() bool {
	return op.aborted.Load()
}

// Err returns the failure of the last run, if any.
func (op *Operation) Err() error {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.err
}

// Done returns a channel closed when the current run reaches a terminal state.
func (op *Operation) Done() <-chan struct{} {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.done
}

// Wait blocks until the operation finishes or ctx is done, and returns the
// operation's error or the context's.
func (op *Operation) Wait(ctx context.Context) error {
	select {
	case <-op.Done():
		return op.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (op *Operation) reset() {
	op.mu.Lock()
	op.err = nil
	op.done = make(chan struct{})
	op.mu.Unlock()
	op.aborted.Store(false)
	op.status.Store(uint32(StatusPending))
}

// invoke runs the work and records the terminal status. Panics are recovered
// and returned as *errors.PanicError.
func (op *Operation) invoke() (err error) {
	op.status.Store(uint32(StatusExecuting))
	defer func() {
		if r := recover(); r != nil {
			err = &errors.PanicError{
				Op:         "dispatcher." + op.priority.String(),
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
		}
		op.finish(err)
	}()
	if op.work != nil {
		err = op.work()
	}
	return err
}

func (op *Operation) finish(err error) {
	status := StatusCompletedSuccess
	switch {
	case err != nil:
		status = StatusCompletedFailed
	case op.aborted.Load():
		status = StatusAborted
	}
	op.mu.Lock()
	op.err = err
	done := op.done
	op.mu.Unlock()
	op.status.Store(uint32(status))
	close(done)
}

func (op *Operation) String() string {
	return fmt.Sprintf("operation %s [%s, %s]", op.id, op.priority, op.Status())
}
