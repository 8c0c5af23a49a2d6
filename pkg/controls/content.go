package controls

import (
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
	"github.com/go-breeze/breeze/pkg/property"
)

// ContentControlType is the type table entry of ContentControl.
var ContentControlType = property.NewType("ContentControl", ControlType)

// ContentProperty holds the single child of a ContentControl.
var ContentProperty = property.MustRegister[layout.Element]("Content", ContentControlType, &property.FrameworkMetadata{
	PropertyMetadata: property.PropertyMetadata{OnChanged: onContentChanged},
}, nil)

func onContentChanged(_ *property.Descriptor, o property.Object, oldValue, newValue any) {
	owner, ok := o.(layout.Element)
	if !ok {
		return
	}
	if old, ok := oldValue.(layout.Element); ok && old != nil {
		detach(old)
	}
	owner.InvalidateVisual()
	if child, ok := newValue.(layout.Element); ok && child != nil {
		attach(owner, child)
		child.InvalidateLayout()
	}
}

type attachable interface {
	SetParent(layout.Element)
	Validate(bool)
}

// attach makes parent the parent of child. The child takes the parent's
// validity, and so do its own invalid descendants.
func attach(parent, child layout.Element) {
	if a, ok := child.(attachable); ok {
		a.SetParent(parent)
		a.Validate(parent.IsValid())
	}
}

func detach(child layout.Element) {
	if a, ok := child.(attachable); ok {
		a.SetParent(nil)
		a.Validate(false)
	}
}

// ContentControl is a control with one child.
type ContentControl struct {
	Control
}

// NewContentControl creates an empty content control.
func NewContentControl() *ContentControl {
	c := &ContentControl{}
	c.SetSelf(c)
	return c
}

// DependencyType returns ContentControlType.
func (c *ContentControl) DependencyType() *property.Type {
	return ContentControlType
}

// Content returns the child, or nil.
func (c *ContentControl) Content() layout.Element {
	return ContentProperty.Get(c.Self())
}

// SetContent replaces the child. The previous child is detached.
func (c *ContentControl) SetContent(e layout.Element) {
	ContentProperty.Set(c.Self(), e)
}

// VisitChildren visits the content, if any.
func (c *ContentControl) VisitChildren(visitor func(layout.Element)) {
	if child := c.Content(); child != nil {
		visitor(child)
	}
}

// MeasureCore applies the control's own sizing, then measures the content
// inside the result and grows it to bound the content. The content is
// offered the control's rectangle, as it is when re-measured on its own.
func (c *ContentControl) MeasureCore(available geometry.Rect) geometry.Rect {
	r := c.Control.MeasureCore(available)
	if child := c.Content(); child != nil {
		r = r.Union(child.Measure(r))
	}
	return r
}
