// Package layout implements the element tree and its per-tick layout pass.
//
// Elements carry a property store, a non-owning parent reference, a validity
// flag and a resolved layout rectangle. Property changes whose metadata
// affects layout or rendering mark the element dirty and enqueue it on the
// Manager supplied by the element's Context. Once per tick the Manager
// collapses its arrange queue to the top-most dirty elements and measures
// them; each element re-measures its dirty descendants itself.
package layout

import (
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/property"
	"github.com/go-breeze/breeze/pkg/render"
)

// Context gives elements access to the layout manager of the running
// application. The application creates managers on demand, so the returned
// manager may differ between ticks.
type Context interface {
	LayoutManager() *Manager
}

// Element is a node of the element tree. Concrete elements embed
// ElementBase (usually through FrameworkElement) and call SetSelf in their
// constructor.
type Element interface {
	property.Object

	Parent() Element
	Context() Context
	ID() string
	IsValid() bool
	LayoutRect() geometry.Rect
	IsMeasuring() bool
	IsLayoutDirty() bool
	IsRenderDirty() bool
	Measure(available geometry.Rect) geometry.Rect
	InvalidateLayout()
	InvalidateRender()
	InvalidateVisual()
	OpenRender(b render.Backend) *render.Context
	Render(ctx *render.Context)
	CloseRender(ctx *render.Context)

	elementBase() *ElementBase
}

// Container is implemented by elements with children. Invalidating a
// container invalidates its children the same way.
type Container interface {
	VisitChildren(visitor func(Element))
}

// MeasureCorer computes an element's layout rectangle from the space its
// parent offers. Elements without it take the whole available rectangle.
type MeasureCorer interface {
	MeasureCore(available geometry.Rect) geometry.Rect
}

// RootUpdater is implemented by root elements that know their own extent.
// The manager calls it instead of re-measuring the root against its last
// rectangle.
type RootUpdater interface {
	UpdateLayout()
}

// ElementType is the root of the element type table.
var ElementType = property.NewType("Element", nil)

// ParentProperty holds the parent element. Assigning it attaches the element:
// it becomes valid when the new parent is valid and invalid when detached.
// Detaching leaves the element's own children as they are.
var ParentProperty = property.MustRegister[Element]("Parent", ElementType, &property.PropertyMetadata{
	OnChanged: onParentChanged,
}, nil)

// MarginProperty is the space reserved around an element.
var MarginProperty = property.MustRegister[geometry.Thickness]("Margin", ElementType, nil, nil)

// IsMouseOverProperty reports whether the pointer is over the element.
var IsMouseOverProperty = property.MustRegister[bool]("IsMouseOver", ElementType, nil, nil)

func onParentChanged(_ *property.Descriptor, o property.Object, _, newValue any) {
	e, ok := o.(Element)
	if !ok {
		return
	}
	parent, _ := newValue.(Element)
	b := e.elementBase()
	b.parent = parent
	b.Validate(parent != nil && parent.IsValid())
}

// ElementBase provides the state and behavior shared by all elements.
type ElementBase struct {
	property.Store

	self    Element
	parent  Element
	context Context
	id      string

	valid          bool
	layoutRect     geometry.Rect
	lastLayoutRect geometry.Rect
	lastAvailable  geometry.Rect
	hasMeasured    bool
	layoutDirty    bool
	renderDirty    bool
	measuring      bool
}

// SetSelf registers the concrete element. It must be called once, from the
// concrete element's constructor, before any property is read.
func (e *ElementBase) SetSelf(self Element) {
	e.self = self
	e.Store.Init(self)
}

// Self returns the concrete element registered via SetSelf.
func (e *ElementBase) Self() Element {
	return e.self
}

func (e *ElementBase) elementBase() *ElementBase {
	return e
}

// DependencyType returns ElementType. Concrete kinds shadow it.
func (e *ElementBase) DependencyType() *property.Type {
	return ElementType
}

// ID returns the element identifier, empty if unset.
func (e *ElementBase) ID() string {
	return e.id
}

// SetID sets the element identifier used by lookups and diagnostics.
func (e *ElementBase) SetID(id string) {
	e.id = id
}

// Parent returns the parent element, or nil for roots and detached elements.
func (e *ElementBase) Parent() Element {
	return e.parent
}

// SetParent attaches the element to parent, or detaches it when parent is nil.
// The reference is updated before change observers run, so they already see
// the new parent.
func (e *ElementBase) SetParent(parent Element) {
	ParentProperty.Set(e.self, parent)
	e.parent = parent
}

// SetContext makes e a root bound to ctx.
func (e *ElementBase) SetContext(ctx Context) {
	e.context = ctx
}

// Context returns the element's own context or the nearest ancestor's.
func (e *ElementBase) Context() Context {
	if e.context != nil {
		return e.context
	}
	if p := e.Parent(); p != nil {
		return p.Context()
	}
	return nil
}

// Margin returns the element margin.
func (e *ElementBase) Margin() geometry.Thickness {
	return MarginProperty.Get(e.self)
}

// SetMargin sets the element margin.
func (e *ElementBase) SetMargin(t geometry.Thickness) {
	MarginProperty.Set(e.self, t)
}

// IsValid reports whether the element is attached to a live tree.
func (e *ElementBase) IsValid() bool {
	return e.valid
}

// Validate sets the validity flag. Becoming valid also validates the
// invalid children that are attached to e, recursively; invalidating leaves
// the children untouched.
func (e *ElementBase) Validate(valid bool) {
	e.valid = valid
	if !valid {
		return
	}
	c, ok := e.self.(Container)
	if !ok {
		return
	}
	c.VisitChildren(func(child Element) {
		if !child.IsValid() && child.Parent() == e.self {
			child.elementBase().Validate(true)
		}
	})
}

// LayoutRect returns the rectangle resolved by the last measure.
func (e *ElementBase) LayoutRect() geometry.Rect {
	return e.layoutRect
}

// LastLayoutRect returns the rectangle before the last measure.
func (e *ElementBase) LastLayoutRect() geometry.Rect {
	return e.lastLayoutRect
}

// IsMeasuring reports whether the element is inside its own Measure call.
func (e *ElementBase) IsMeasuring() bool {
	return e.measuring
}

// IsLayoutDirty reports whether the element awaits re-measurement.
func (e *ElementBase) IsLayoutDirty() bool {
	return e.layoutDirty
}

// IsRenderDirty reports whether the element awaits a redraw.
func (e *ElementBase) IsRenderDirty() bool {
	return e.renderDirty
}

// MarkLayoutDirty sets the dirty flag without scheduling, forcing the next
// Measure to run.
func (e *ElementBase) MarkLayoutDirty() {
	e.layoutDirty = true
}

func (e *ElementBase) manager() *Manager {
	if e.self == nil {
		return nil
	}
	ctx := e.self.Context()
	if ctx == nil {
		return nil
	}
	return ctx.LayoutManager()
}

// InvalidateLayout marks the element and its children for re-measurement and
// enqueues it on the layout manager. It does nothing for invalid elements,
// during the element's own measure, or when already dirty.
func (e *ElementBase) InvalidateLayout() {
	if !e.valid || e.measuring || e.layoutDirty {
		return
	}
	e.layoutDirty = true
	if c, ok := e.self.(Container); ok {
		c.VisitChildren(func(child Element) {
			child.InvalidateLayout()
		})
	}
	if m := e.manager(); m != nil {
		m.ScheduleArrange(e.self)
	}
}

// InvalidateRender marks the element and its children for redraw.
func (e *ElementBase) InvalidateRender() {
	if !e.valid || e.renderDirty {
		return
	}
	e.renderDirty = true
	if c, ok := e.self.(Container); ok {
		c.VisitChildren(func(child Element) {
			child.InvalidateRender()
		})
	}
	if m := e.manager(); m != nil {
		m.ScheduleRender(e.self)
	}
}

// InvalidateVisual invalidates both render and layout.
func (e *ElementBase) InvalidateVisual() {
	e.InvalidateRender()
	e.InvalidateLayout()
}

// Measure resolves the element's layout rectangle within available.
//
// The core step runs when the element has never been measured, is layout
// dirty, or is offered a different rectangle than last time. A measure
// re-entered from the element's own core step returns the current rectangle.
// When the result moves by more than geometry.Epsilon, or the element is
// render dirty, it is added to the render list.
func (e *ElementBase) Measure(available geometry.Rect) geometry.Rect {
	if e.measuring {
		return e.layoutRect
	}
	if e.hasMeasured && !e.layoutDirty && e.lastAvailable.IsCloseTo(available) {
		return e.layoutRect
	}

	e.hasMeasured = true
	e.lastLayoutRect = e.layoutRect
	e.lastAvailable = available
	e.layoutRect = e.measureCore(available)

	if e.renderDirty || !e.lastLayoutRect.IsCloseTo(e.layoutRect) {
		if m := e.manager(); m != nil {
			m.ScheduleRender(e.self)
		}
	}
	return e.layoutRect
}

func (e *ElementBase) measureCore(available geometry.Rect) geometry.Rect {
	e.measuring = true
	defer func() {
		e.measuring = false
		e.layoutDirty = false
	}()
	if mc, ok := e.self.(MeasureCorer); ok {
		return mc.MeasureCore(available)
	}
	return available
}

// OpenRender opens a render context positioned at the element's layout
// rectangle.
func (e *ElementBase) OpenRender(b render.Backend) *render.Context {
	return render.NewContext(b, e.layoutRect.Position())
}

// Render draws nothing. Visible elements shadow it.
func (e *ElementBase) Render(*render.Context) {}

// CloseRender releases ctx and clears the render dirty flag.
func (e *ElementBase) CloseRender(ctx *render.Context) {
	if ctx != nil {
		ctx.Close()
	}
	e.renderDirty = false
}

// IsAttached reports whether e and every ancestor of e are valid. Only
// attached elements take part in the measure and render passes.
func IsAttached(e Element) bool {
	for ; e != nil; e = e.Parent() {
		if !e.IsValid() {
			return false
		}
	}
	return true
}

// Depth returns the number of ancestors of e.
func Depth(e Element) int {
	d := 0
	for p := e.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}
