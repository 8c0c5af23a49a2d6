// Package dispatcher implements the priority-phased work queue owned by the
// application's main goroutine.
//
// Work is queued into one bucket per Priority from any goroutine. The
// application drains each bucket once per tick, in ascending priority order,
// on the goroutine that created the Dispatcher. A failing operation never
// stops its siblings; all failures of one drain are returned together as an
// *errors.AggregateError.
package dispatcher

import "fmt"

// Priority is a tick phase. Lower values run earlier in the tick.
type Priority int

const (
	// PreTick runs as soon as the application wakes, before messages.
	PreTick Priority = iota
	// InputPre runs before input handling.
	InputPre
	// InputPost runs after input handling.
	InputPost
	// RenderPre runs after layout, before elements are drawn.
	RenderPre
	// RenderPost runs after elements are drawn.
	RenderPost
	// ApplicationIdle is the normal priority for deferred application work.
	ApplicationIdle
	// ContextIdle runs after ApplicationIdle.
	ContextIdle
	// PostTick runs just before the application waits for the next event.
	PostTick

	priorityCount = int(PostTick) + 1
)

var priorityNames = [priorityCount]string{
	"pre-tick",
	"input-pre",
	"input-post",
	"render-pre",
	"render-post",
	"application-idle",
	"context-idle",
	"post-tick",
}

func (p Priority) String() string {
	if p.Valid() {
		return priorityNames[p]
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Valid reports whether p is one of the defined phases.
func (p Priority) Valid() bool {
	return p >= PreTick && p <= PostTick
}

// Priorities returns every phase in execution order.
func Priorities() []Priority {
	out := make([]Priority, priorityCount)
	for i := range out {
		out[i] = Priority(i)
	}
	return out
}

// ParsePriority returns the phase with the given name.
func ParsePriority(name string) (Priority, error) {
	for i, n := range priorityNames {
		if n == name {
			return Priority(i), nil
		}
	}
	return 0, fmt.Errorf("unknown priority %q", name)
}
