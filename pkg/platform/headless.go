package platform

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/go-breeze/breeze/pkg/geometry"
)

// Headless is an in-memory Platform for tests, tools and servers.
type Headless struct {
	wake chan struct{}

	mu            sync.Mutex
	size          geometry.Size
	pendingResize *geometry.Size
	refresh       func()
	resize        func(geometry.Size)

	closed atomic.Bool
	swaps  atomic.Int64
	ticks  atomic.Int64
	waits  atomic.Int64
}

var _ Platform = (*Headless)(nil)

// NewHeadless creates a headless surface of the given size.
func NewHeadless(width, height float64) *Headless {
	return &Headless{
		wake: make(chan struct{}, 1),
		size: geometry.Size{Width: width, Height: height},
	}
}

// FramebufferSize returns the current surface size.
func (h *Headless) FramebufferSize() geometry.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}

// WaitEvents blocks until Wake, Resize, Refresh or Close is called, or ctx is
// done. A pending resize callback runs before it returns.
func (h *Headless) WaitEvents(ctx context.Context) error {
	h.waits.Add(1)
	if h.closed.Load() {
		return ErrClosed
	}
	select {
	case <-h.wake:
	case <-ctx.Done():
		return ctx.Err()
	}
	h.deliver()
	return nil
}

// Poll delivers pending callbacks without blocking.
func (h *Headless) Poll() {
	select {
	case <-h.wake:
	default:
	}
	h.deliver()
}

func (h *Headless) deliver() {
	h.mu.Lock()
	pending := h.pendingResize
	h.pendingResize = nil
	resize := h.resize
	h.mu.Unlock()
	if pending != nil && resize != nil {
		resize(*pending)
	}
}

// Wake unblocks WaitEvents. Multiple wakes before a wait collapse into one.
func (h *Headless) Wake() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// SwapBuffers counts presented frames.
func (h *Headless) SwapBuffers() {
	h.swaps.Add(1)
}

// Swaps returns the number of SwapBuffers calls.
func (h *Headless) Swaps() int64 {
	return h.swaps.Load()
}

// Ticks returns the number of OnTick calls.
func (h *Headless) Ticks() int64 {
	return h.ticks.Load()
}

// Waits returns the number of WaitEvents calls.
func (h *Headless) Waits() int64 {
	return h.waits.Load()
}

// ShouldClose reports whether Close has been called.
func (h *Headless) ShouldClose() bool {
	return h.closed.Load()
}

// Close asks the application to stop and wakes it.
func (h *Headless) Close() {
	h.closed.Store(true)
	h.Wake()
}

// OnTick counts ticks.
func (h *Headless) OnTick() {
	h.ticks.Add(1)
}

// SetRefreshCallback registers the redraw callback.
func (h *Headless) SetRefreshCallback(fn func()) {
	h.mu.Lock()
	h.refresh = fn
	h.mu.Unlock()
}

// SetResizeCallback registers the resize callback.
func (h *Headless) SetResizeCallback(fn func(geometry.Size)) {
	h.mu.Lock()
	h.resize = fn
	h.mu.Unlock()
}

// Refresh simulates the window system asking for a redraw. The callback runs
// on the calling goroutine.
func (h *Headless) Refresh() {
	h.mu.Lock()
	fn := h.refresh
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Resize changes the surface size. The resize callback runs on the next
// WaitEvents or Poll.
func (h *Headless) Resize(width, height float64) {
	size := geometry.Size{Width: width, Height: height}
	h.mu.Lock()
	h.size = size
	h.pendingResize = &size
	h.mu.Unlock()
	h.Wake()
}
