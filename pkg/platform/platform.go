// Package platform abstracts the window system the application loop runs on.
//
// The loop calls WaitEvents between ticks, which blocks until input, a
// resize or a Wake arrives. Callbacks registered on the platform fire on the
// goroutine calling WaitEvents, never concurrently with a tick.
package platform

import (
	"context"

	"github.com/go-breeze/breeze/pkg/geometry"
)

// Platform is the window and event source used by the application loop.
type Platform interface {
	// FramebufferSize returns the drawable surface size.
	FramebufferSize() geometry.Size
	// WaitEvents blocks until an event or wake-up arrives, ctx is done, or the
	// platform closes.
	WaitEvents(ctx context.Context) error
	// Wake unblocks WaitEvents. Safe from any goroutine.
	Wake()
	// SwapBuffers presents the finished frame.
	SwapBuffers()
	// ShouldClose reports whether the user asked to close the surface.
	ShouldClose() bool
	// OnTick is called once per tick before input processing.
	OnTick()
	// SetRefreshCallback registers fn to run when the surface needs a redraw.
	SetRefreshCallback(fn func())
	// SetResizeCallback registers fn to run when the surface is resized.
	SetResizeCallback(fn func(size geometry.Size))
}
