package render

import "github.com/go-breeze/breeze/pkg/geometry"

// Context is the drawing handle passed to one element's render step.
// Coordinates are relative to the element's layout position.
type Context struct {
	backend Backend
	offset  geometry.Offset
	closed  bool
}

// NewContext opens a context that draws on b translated by offset.
func NewContext(b Backend, offset geometry.Offset) *Context {
	return &Context{backend: b, offset: offset}
}

// Backend returns the underlying backend.
func (c *Context) Backend() Backend {
	return c.backend
}

// Offset returns the translation applied to every draw call.
func (c *Context) Offset() geometry.Offset {
	return c.offset
}

// FillRect fills rect, relative to the element origin, with col. Calls after
// Close are dropped.
func (c *Context) FillRect(rect geometry.Rect, col geometry.Color) {
	if c.closed || c.backend == nil {
		return
	}
	c.backend.FillRect(rect.Translate(c.offset.X, c.offset.Y), col)
}

// Close releases the context.
func (c *Context) Close() {
	c.closed = true
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool {
	return c.closed
}
