package dispatcher

import (
	"sync"

	"github.com/go-breeze/breeze/pkg/errors"
)

type bucket struct {
	mu  sync.Mutex
	ops []*Operation
}

// Queue holds one FIFO bucket per priority. Enqueue is safe from any
// goroutine; Drain must only be called by the owner.
type Queue struct {
	buckets [priorityCount]bucket
}

// Enqueue appends op to its priority's bucket.
func (q *Queue) Enqueue(op *Operation) {
	b := &q.buckets[op.priority]
	b.mu.Lock()
	b.ops = append(b.ops, op)
	b.mu.Unlock()
}

// Len returns the number of operations waiting at p.
func (q *Queue) Len(p Priority) int {
	b := &q.buckets[p]
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ops)
}

// Drain takes every operation queued at p and runs them in FIFO order.
// Operations queued while draining wait for the next drain. Failures are
// collected into one *errors.AggregateError; nil means every operation
// succeeded or was aborted.
func (q *Queue) Drain(p Priority) error {
	b := &q.buckets[p]
	b.mu.Lock()
	ops := b.ops
	b.ops = nil
	b.mu.Unlock()

	var agg *errors.AggregateError
	for _, op := range ops {
		if err := op.invoke(); err != nil {
			if agg == nil {
				agg = &errors.AggregateError{Phase: p.String()}
			}
			agg.Failures = append(agg.Failures, &errors.OperationError{
				ID:            op.id,
				Priority:      p.String(),
				Err:           err,
				CreationTrace: op.trace,
			})
		}
	}
	if agg != nil {
		return agg
	}
	return nil
}
