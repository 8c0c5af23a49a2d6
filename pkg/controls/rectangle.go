package controls

import (
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/property"
)

// RectangleType is the type table entry of Rectangle.
var RectangleType = property.NewType("Rectangle", ControlType)

func init() {
	BackgroundProperty.OverrideMetadata(RectangleType, &property.FrameworkMetadata{
		PropertyMetadata: property.PropertyMetadata{Default: geometry.ColorRed},
		Flags:            property.AffectsRender,
	})
}

// Rectangle is a filled box. Its background defaults to red.
type Rectangle struct {
	Control
}

// NewRectangle creates a rectangle.
func NewRectangle() *Rectangle {
	r := &Rectangle{}
	r.SetSelf(r)
	return r
}

// DependencyType returns RectangleType.
func (r *Rectangle) DependencyType() *property.Type {
	return RectangleType
}
