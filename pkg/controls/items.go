package controls

import (
	"fmt"
	"slices"

	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
	"github.com/go-breeze/breeze/pkg/property"
)

// ItemsControlType is the type table entry of ItemsControl.
var ItemsControlType = property.NewType("ItemsControl", ControlType)

// ChildrenProperty holds the children of an ItemsControl. Assigning a new
// slice invalidates the children of the old one and gives the new ones the
// control's validity.
var ChildrenProperty = property.MustRegister[[]layout.Element]("Children", ItemsControlType, &property.FrameworkMetadata{
	PropertyMetadata: property.PropertyMetadata{OnChanged: onChildrenChanged},
}, validChildren)

func validChildren(v any) bool {
	children, _ := v.([]layout.Element)
	for _, c := range children {
		if c == nil {
			return false
		}
	}
	return true
}

func onChildrenChanged(_ *property.Descriptor, o property.Object, oldValue, newValue any) {
	if old, ok := oldValue.([]layout.Element); ok {
		for _, c := range old {
			if v, ok := c.(attachable); ok {
				v.Validate(false)
			}
		}
	}
	owner, ok := o.(layout.Element)
	if !ok {
		return
	}
	if children, ok := newValue.([]layout.Element); ok {
		for _, c := range children {
			if v, ok := c.(attachable); ok {
				v.Validate(owner.IsValid())
			}
		}
	}
	owner.InvalidateLayout()
}

// ItemsControl is a control with any number of children, each measured
// inside the control's own rectangle.
type ItemsControl struct {
	Control
}

// NewItemsControl creates an empty items control.
func NewItemsControl() *ItemsControl {
	c := &ItemsControl{}
	c.SetSelf(c)
	return c
}

// DependencyType returns ItemsControlType.
func (c *ItemsControl) DependencyType() *property.Type {
	return ItemsControlType
}

// Children returns the children in order. The slice must not be modified.
func (c *ItemsControl) Children() []layout.Element {
	return ChildrenProperty.Get(c.Self())
}

// SetChildren replaces every child.
func (c *ItemsControl) SetChildren(children []layout.Element) {
	for _, child := range c.Children() {
		if !slices.Contains(children, child) {
			detach(child)
		}
	}
	for _, child := range children {
		if a, ok := child.(attachable); ok {
			a.SetParent(c.Self())
		}
	}
	ChildrenProperty.Set(c.Self(), slices.Clone(children))
}

// AddChild appends e and invalidates both e and the control.
func (c *ItemsControl) AddChild(e layout.Element) {
	if e == nil {
		panic(fmt.Errorf("controls: AddChild(nil)"))
	}
	children := append(slices.Clone(c.Children()), e)
	if a, ok := e.(attachable); ok {
		a.SetParent(c.Self())
	}
	ChildrenProperty.Set(c.Self(), children)
	c.InvalidateVisual()
	e.InvalidateVisual()
}

// RemoveChild detaches e. It reports whether e was a child.
func (c *ItemsControl) RemoveChild(e layout.Element) bool {
	if e == nil {
		panic(fmt.Errorf("controls: RemoveChild(nil)"))
	}
	children := c.Children()
	i := slices.Index(children, e)
	if i < 0 {
		return false
	}
	detach(e)
	ChildrenProperty.Set(c.Self(), slices.Delete(slices.Clone(children), i, i+1))
	c.InvalidateRender()
	return true
}

// VisitChildren visits the children in order.
func (c *ItemsControl) VisitChildren(visitor func(layout.Element)) {
	for _, child := range c.Children() {
		visitor(child)
	}
}

// MeasureCore applies the control's own sizing, then measures each child
// inside the result and grows it to bound them.
func (c *ItemsControl) MeasureCore(available geometry.Rect) geometry.Rect {
	r := c.Control.MeasureCore(available)
	for _, child := range c.Children() {
		r = r.Union(child.Measure(r))
	}
	return r
}
