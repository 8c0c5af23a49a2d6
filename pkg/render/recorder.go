package render

import (
	"math"
	"sync"

	"github.com/go-breeze/breeze/pkg/geometry"
)

// Command is one recorded backend call.
type Command struct {
	Op     string         `json:"op"`
	Params map[string]any `json:"params,omitempty"`
}

// Recorder is a Backend that keeps every call it receives. It is safe to
// read from another goroutine while the tick loop writes to it.
type Recorder struct {
	mu     sync.Mutex
	cmds   []Command
	frames int
}

var _ Backend = (*Recorder)(nil)

// BeginFrame records a beginFrame command.
func (r *Recorder) BeginFrame(surface geometry.Size) {
	r.append(Command{Op: "beginFrame", Params: map[string]any{
		"width":  round2(surface.Width),
		"height": round2(surface.Height),
	}})
}

// EndFrame records an endFrame command.
func (r *Recorder) EndFrame() {
	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
	r.append(Command{Op: "endFrame"})
}

// FillRect records a fillRect command.
func (r *Recorder) FillRect(rect geometry.Rect, c geometry.Color) {
	r.append(Command{Op: "fillRect", Params: map[string]any{
		"rect":  serializeRect(rect),
		"color": c.String(),
	}})
}

// Clear records a clear command.
func (r *Recorder) Clear() {
	r.append(Command{Op: "clear"})
}

func (r *Recorder) append(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, c)
}

// Commands returns a copy of the recorded commands.
func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

// Ops returns the recorded command names in order.
func (r *Recorder) Ops() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ops := make([]string, len(r.cmds))
	for i, c := range r.cmds {
		ops[i] = c.Op
	}
	return ops
}

// Frames returns the number of completed frames.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = nil
	r.frames = 0
}

func serializeRect(r geometry.Rect) map[string]any {
	return map[string]any{
		"left":   round2(r.Left),
		"top":    round2(r.Top),
		"width":  round2(r.Width()),
		"height": round2(r.Height()),
	}
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
