// Package controls provides the concrete elements of a minimal tree: a
// background-painting Control, single-child and multi-child containers, a
// Rectangle and the root Host.
package controls

import (
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
	"github.com/go-breeze/breeze/pkg/property"
	"github.com/go-breeze/breeze/pkg/render"
)

// ControlType is the type table entry of Control.
var ControlType = property.NewType("Control", layout.FrameworkElementType)

// BackgroundProperty is the fill colour of a control. Transparent draws
// nothing.
var BackgroundProperty = property.MustRegister[geometry.Color]("Background", ControlType, &property.FrameworkMetadata{
	PropertyMetadata: property.PropertyMetadata{Default: geometry.ColorTransparent},
	Flags:            property.AffectsRender,
}, nil)

// Control is a framework element that fills its layout rectangle with its
// background.
type Control struct {
	layout.FrameworkElement
}

// NewControl creates a control.
func NewControl() *Control {
	c := &Control{}
	c.SetSelf(c)
	return c
}

// DependencyType returns ControlType.
func (c *Control) DependencyType() *property.Type {
	return ControlType
}

// Background returns the background colour.
func (c *Control) Background() geometry.Color {
	return BackgroundProperty.Get(c.Self())
}

// SetBackground sets the background colour.
func (c *Control) SetBackground(col geometry.Color) {
	BackgroundProperty.Set(c.Self(), col)
}

// Render fills the element's rectangle with the background.
func (c *Control) Render(ctx *render.Context) {
	bg := c.Background()
	if bg.Alpha() == 0 {
		return
	}
	r := c.LayoutRect()
	ctx.FillRect(geometry.RectFromLTWH(0, 0, r.Width(), r.Height()), bg)
}
