package app

import (
	"sync"
	"time"
)

const (
	tickTraceSamplesDefault  = 240
	defaultSlowTickThreshold = 16667 * time.Microsecond
)

// TickPhaseTimings captures time spent in each tick phase (ms).
type TickPhaseTimings struct {
	PreTickMs    float64 `json:"preTickMs"`
	MessagesMs   float64 `json:"messagesMs"`
	InputMs      float64 `json:"inputMs"`
	LayoutMs     float64 `json:"layoutMs"`
	RenderPreMs  float64 `json:"renderPreMs"`
	RenderMs     float64 `json:"renderMs"`
	RenderPostMs float64 `json:"renderPostMs"`
	IdleMs       float64 `json:"idleMs"`
	PostTickMs   float64 `json:"postTickMs"`
}

// TickCounts captures per-tick workload indicators.
type TickCounts struct {
	Messages     int `json:"messages"`
	DirtyArrange int `json:"dirtyArrange"`
	Rendered     int `json:"rendered"`
	Failures     int `json:"failures"`
}

// TickSample is a single tick trace sample.
type TickSample struct {
	Timestamp int64            `json:"ts"`
	TickMs    float64          `json:"tickMs"`
	Phases    TickPhaseTimings `json:"phases"`
	Counts    TickCounts       `json:"counts"`
}

// TickTimeline is a chronological view of the trace buffer.
type TickTimeline struct {
	Samples     []TickSample `json:"samples"`
	SlowTicks   int          `json:"slowTicks"`
	ThresholdMs float64      `json:"thresholdMs"`
}

// TickTraceBuffer stores recent tick samples in a ring buffer.
type TickTraceBuffer struct {
	mu        sync.RWMutex
	samples   []TickSample
	index     int
	count     int
	slow      int
	threshold time.Duration
}

// NewTickTraceBuffer creates a trace buffer. Non-positive arguments use the
// defaults.
func NewTickTraceBuffer(capacity int, threshold time.Duration) *TickTraceBuffer {
	if capacity <= 0 {
		capacity = tickTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultSlowTickThreshold
	}
	return &TickTraceBuffer{
		samples:   make([]TickSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *TickTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Add records a sample and counts it as slow when d exceeds the threshold.
func (b *TickTraceBuffer) Add(sample TickSample, d time.Duration) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if d > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of the samples.
func (b *TickTraceBuffer) Snapshot() TickTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return TickTimeline{ThresholdMs: durationToMillis(b.threshold)}
	}

	result := make([]TickSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}
	return TickTimeline{
		Samples:     result,
		SlowTicks:   b.slow,
		ThresholdMs: durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
