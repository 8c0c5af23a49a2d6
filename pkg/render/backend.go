// Package render defines the drawing surface elements paint onto.
//
// A Backend receives one frame per dirty element: the tick loop opens a
// Context for the element, brackets its draw calls with BeginFrame and
// EndFrame, then closes the Context. Two backends ship with the package:
// Recorder, which keeps the commands for inspection, and Raster, which
// paints into an in-memory image.
package render

import "github.com/go-breeze/breeze/pkg/geometry"

// Backend is the primitive drawing interface.
type Backend interface {
	// BeginFrame starts a frame on a surface of the given size.
	BeginFrame(surface geometry.Size)
	// EndFrame finishes the current frame.
	EndFrame()
	// FillRect fills rect, in surface coordinates, with c.
	FillRect(rect geometry.Rect, c geometry.Color)
	// Clear resets the frame buffer between ticks.
	Clear()
}
