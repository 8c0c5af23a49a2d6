package layout

import (
	"math"
	"testing"

	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/property"
)

type testContext struct {
	m *Manager
}

func (c *testContext) LayoutManager() *Manager {
	if c.m == nil {
		c.m = NewManager()
	}
	return c.m
}

var testPanelType = property.NewType("testPanel", FrameworkElementType)

// testPanel is a framework element that counts core measures and lays its
// children out inside its own rectangle.
type testPanel struct {
	FrameworkElement
	children []Element
	measures int
	reenter  bool
}

func newPanel() *testPanel {
	p := &testPanel{}
	p.SetSelf(p)
	return p
}

func (p *testPanel) DependencyType() *property.Type { return testPanelType }

func (p *testPanel) add(child *testPanel) *testPanel {
	child.SetParent(p)
	p.children = append(p.children, child)
	return child
}

func (p *testPanel) VisitChildren(visitor func(Element)) {
	for _, c := range p.children {
		visitor(c)
	}
}

func (p *testPanel) MeasureCore(available geometry.Rect) geometry.Rect {
	p.measures++
	if p.reenter {
		p.Measure(available)
	}
	r := p.FrameworkElement.MeasureCore(available)
	for _, c := range p.children {
		c.Measure(r)
	}
	return r
}

func newRoot(ctx Context) *testPanel {
	root := newPanel()
	root.SetContext(ctx)
	root.Validate(true)
	return root
}

func TestMeasureIsIdempotent(t *testing.T) {
	p := newPanel()
	r := geometry.RectFromLTWH(0, 0, 100, 100)

	p.Measure(r)
	p.Measure(r)
	if p.measures != 1 {
		t.Errorf("core measured %d times, want 1", p.measures)
	}

	p.Measure(geometry.RectFromLTWH(0, 0, 200, 100))
	if p.measures != 2 {
		t.Errorf("new rect: core measured %d times, want 2", p.measures)
	}

	p.MarkLayoutDirty()
	p.Measure(geometry.RectFromLTWH(0, 0, 200, 100))
	if p.measures != 3 {
		t.Errorf("dirty: core measured %d times, want 3", p.measures)
	}
	if p.IsLayoutDirty() || p.IsMeasuring() {
		t.Error("flags not cleared after measure")
	}
}

func TestMeasureReentrancyGuard(t *testing.T) {
	p := newPanel()
	p.reenter = true
	p.Measure(geometry.RectFromLTWH(0, 0, 10, 10))
	if p.measures != 1 {
		t.Errorf("core measured %d times, want 1", p.measures)
	}
}

func TestAlignmentPlacement(t *testing.T) {
	area := geometry.RectFromLTWH(0, 0, 500, 500)
	tests := []struct {
		name  string
		h     geometry.HorizontalAlignment
		v     geometry.VerticalAlignment
		width float64
		want  geometry.Rect
	}{
		{"center", geometry.AlignHCenter, geometry.AlignVCenter, 50, geometry.RectFromLTWH(225, 225, 50, 50)},
		{"top left", geometry.AlignLeft, geometry.AlignTop, 50, geometry.RectFromLTWH(0, 0, 50, 50)},
		{"bottom right", geometry.AlignRight, geometry.AlignBottom, 50, geometry.RectFromLTWH(450, 450, 50, 50)},
		{"stretch", geometry.AlignHStretch, geometry.AlignVStretch, 50, geometry.RectFromLTWH(0, 0, 500, 500)},
		{"auto width", geometry.AlignLeft, geometry.AlignTop, math.NaN(), geometry.RectFromLTWH(0, 0, 0, 50)},
		{"infinite width", geometry.AlignLeft, geometry.AlignTop, math.Inf(1), geometry.RectFromLTWH(0, 0, 500, 50)},
		{"too wide", geometry.AlignLeft, geometry.AlignTop, 800, geometry.RectFromLTWH(0, 0, 500, 50)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFrameworkElement()
			e.SetHorizontalAlignment(tt.h)
			e.SetVerticalAlignment(tt.v)
			e.SetWidth(tt.width)
			e.SetHeight(50)
			if got := e.Measure(area); !got.IsCloseTo(tt.want) {
				t.Errorf("Measure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinMaxAndMargin(t *testing.T) {
	e := NewFrameworkElement()
	e.SetMinWidth(30)
	e.SetMaxHeight(20)
	e.SetHeight(100)
	e.SetMargin(geometry.Uniform(10))

	got := e.Measure(geometry.RectFromLTWH(0, 0, 200, 200))
	want := geometry.RectFromLTWH(10, 10, 30, 20)
	if !got.IsCloseTo(want) {
		t.Errorf("Measure() = %v, want %v", got, want)
	}
}

func TestBypassMeasurement(t *testing.T) {
	e := NewFrameworkElement()
	e.BypassMeasurement = true
	e.SetWidth(10)
	r := geometry.RectFromLTWH(5, 5, 300, 200)
	if got := e.Measure(r); got != r {
		t.Errorf("Measure() = %v, want %v", got, r)
	}
}

func TestSuitableSize(t *testing.T) {
	e := NewFrameworkElement()
	area := geometry.RectFromLTWH(0, 0, 400, 300)
	if got := e.SuitableWidth(area); got != 0 {
		t.Errorf("auto width = %v, want MinWidth 0", got)
	}
	e.SetHeight(math.Inf(1))
	if got := e.SuitableHeight(area); got != 300 {
		t.Errorf("infinite height = %v, want area height", got)
	}
	e.SetMaxHeight(120)
	if got := e.SuitableHeight(area); got != 120 {
		t.Errorf("infinite height with max = %v, want 120", got)
	}
}

func TestInvalidateLayoutRequiresValidity(t *testing.T) {
	ctx := &testContext{}
	detached := newPanel()
	detached.SetContext(ctx)
	detached.InvalidateLayout()
	if detached.IsLayoutDirty() || ctx.LayoutManager().DirtyArrangeCount() != 0 {
		t.Error("invalid element should ignore invalidation")
	}

	root := newRoot(ctx)
	root.InvalidateLayout()
	root.InvalidateLayout()
	if got := ctx.m.ArrangeQueue(); len(got) != 1 || got[0] != Element(root) {
		t.Errorf("arrange queue = %v, want [root]", got)
	}
}

func TestParentAssignmentSetsValidity(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)
	child := root.add(newPanel())
	if !child.IsValid() {
		t.Fatal("child of a valid parent should be valid")
	}
	if child.Context() != Context(ctx) {
		t.Error("child should resolve the root context")
	}
	grandchild := child.add(newPanel())

	orphanParent := newPanel()
	orphan := orphanParent.add(newPanel())
	if orphan.IsValid() {
		t.Error("child of an invalid parent should be invalid")
	}

	child.SetParent(nil)
	if child.IsValid() {
		t.Error("detached element should be invalid")
	}
	if !grandchild.IsValid() {
		t.Error("detaching should not invalidate descendants")
	}
	if Depth(grandchild) != 1 {
		t.Errorf("Depth = %d, want 1", Depth(grandchild))
	}
}

func TestAttachingValidatesSubtree(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)

	panel := newPanel()
	child := panel.add(newPanel())
	grandchild := child.add(newPanel())
	for _, e := range []*testPanel{panel, child, grandchild} {
		if e.IsValid() {
			t.Fatal("a subtree built off the tree should be invalid")
		}
	}

	root.add(panel)
	for i, e := range []*testPanel{panel, child, grandchild} {
		if !e.IsValid() {
			t.Errorf("element %d not validated by attaching its subtree", i)
		}
	}

	panel.SetParent(nil)
	if panel.IsValid() || !child.IsValid() {
		t.Error("detaching should invalidate only the detached element")
	}
	if IsAttached(child) || IsAttached(grandchild) {
		t.Error("descendants of a detached element should not count as attached")
	}
	if !IsAttached(root) {
		t.Error("a valid root is attached")
	}
}

func TestDetachedElementsSkipLayoutAndRender(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)
	child := root.add(newPanel())
	grandchild := child.add(newPanel())
	root.SetWidth(100)
	root.SetHeight(100)
	child.SetHeight(10)
	grandchild.SetHeight(10)
	root.Measure(geometry.RectFromLTWH(0, 0, 100, 100))
	ctx.m = nil

	child.SetWidth(20)
	grandchild.SetWidth(30)
	child.InvalidateRender()
	m := ctx.m
	if m.DirtyArrangeCount() == 0 || m.DirtyRenderCount() == 0 {
		t.Fatal("expected queued work before detaching")
	}
	child.SetParent(nil)
	root.children = nil

	m.UpdateLayout(root)
	if w := child.LayoutRect().Width(); w != 0 {
		t.Errorf("detached element re-measured: width %v", w)
	}
	if w := grandchild.LayoutRect().Width(); w != 0 {
		t.Errorf("child of a detached element re-measured: width %v", w)
	}
	for _, e := range m.RenderList() {
		if e == Element(child) || e == Element(grandchild) {
			t.Errorf("detached element %p in render list", e)
		}
	}
}

func TestInvalidatePropagatesToChildren(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)
	child := root.add(newPanel())
	root.Measure(geometry.RectFromLTWH(0, 0, 100, 100))
	ctx.m = nil

	root.InvalidateVisual()
	if !child.IsLayoutDirty() || !child.IsRenderDirty() {
		t.Error("container invalidation should reach children")
	}
	if ctx.m.DirtyArrangeCount() != 2 || ctx.m.DirtyRenderCount() != 2 {
		t.Errorf("arrange=%d render=%d, want 2 and 2", ctx.m.DirtyArrangeCount(), ctx.m.DirtyRenderCount())
	}
}

func TestPropertyFlagsInvalidate(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)
	root.Measure(geometry.RectFromLTWH(0, 0, 100, 100))
	ctx.m = nil

	root.SetWidth(40)
	if !root.IsLayoutDirty() {
		t.Error("Width should invalidate layout")
	}

	other := newRoot(ctx)
	other.SetValue(IsMouseOverProperty.Descriptor(), true)
	if !other.IsRenderDirty() {
		t.Error("IsMouseOver should invalidate render on framework elements")
	}

	host := newRoot(ctx)
	host.BypassMeasurement = true
	host.SetWidth(10)
	if host.IsLayoutDirty() {
		t.Error("bypassing host should ignore Width")
	}
	host.SetMinWidth(5)
	if !host.IsLayoutDirty() {
		t.Error("bypassing host should still honor MinWidth")
	}
}

func TestWidthSetTwiceNotifiesOnce(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)
	calls := 0
	WidthProperty.OverrideMetadata(testPanelType, &property.FrameworkMetadata{
		PropertyMetadata: property.PropertyMetadata{
			Default: math.NaN(),
			OnChanged: func(*property.Descriptor, property.Object, any, any) {
				calls++
			},
		},
		Flags: property.AffectsLayout,
	})
	defer WidthProperty.OverrideMetadata(testPanelType, layoutMeta(math.NaN()))

	root.SetWidth(50)
	root.SetWidth(50)
	if calls != 1 {
		t.Errorf("change callback ran %d times, want 1", calls)
	}
}

func TestTopLevelCollapsesAncestors(t *testing.T) {
	gp := newPanel()
	p := gp.add(newPanel())
	c := p.add(newPanel())
	sibling := gp.add(newPanel())
	other := newPanel()

	got := TopLevel([]Element{c, p, gp})
	if len(got) != 1 || got[0] != Element(gp) {
		t.Errorf("TopLevel = %v, want [gp]", got)
	}

	got = TopLevel([]Element{c, sibling, other})
	if len(got) != 3 {
		t.Errorf("TopLevel of unrelated elements = %d entries, want 3", len(got))
	}

	// c's parent is clean, so c stays top-level even though gp is dirty.
	got = TopLevel([]Element{c, gp})
	if len(got) != 2 {
		t.Errorf("TopLevel with a clean link = %d entries, want 2", len(got))
	}
}

func TestUpdateLayoutMeasuresOnlyTopLevel(t *testing.T) {
	ctx := &testContext{}
	gp := newRoot(ctx)
	gp.SetWidth(300)
	gp.SetHeight(300)
	p := gp.add(newPanel())
	c := p.add(newPanel())
	gp.Measure(geometry.RectFromLTWH(0, 0, 300, 300))
	gp.measures, p.measures, c.measures = 0, 0, 0
	ctx.m = nil

	c.InvalidateLayout()
	p.InvalidateLayout()
	gp.InvalidateLayout()
	m := ctx.LayoutManager()
	if m.DirtyArrangeCount() != 3 {
		t.Fatalf("arrange queue has %d entries, want 3", m.DirtyArrangeCount())
	}

	m.Activate()
	m.UpdateLayout(nil)
	m.Deactivate()

	if gp.measures != 1 || p.measures != 1 || c.measures != 1 {
		t.Errorf("measures gp=%d p=%d c=%d, want 1 each", gp.measures, p.measures, c.measures)
	}
	if m.DirtyArrangeCount() != 0 {
		t.Errorf("arrange queue not cleared: %d", m.DirtyArrangeCount())
	}
	if m.IsActive() {
		t.Error("manager still active")
	}
}

func TestUpdateLayoutDirtyRoot(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)
	root.BypassMeasurement = true
	child := root.add(newPanel())
	root.Measure(geometry.RectFromLTWH(0, 0, 100, 100))
	root.measures, child.measures = 0, 0
	ctx.m = nil

	root.InvalidateLayout()
	ctx.LayoutManager().UpdateLayout(root)
	if root.measures != 1 || child.measures != 1 {
		t.Errorf("measures root=%d child=%d, want 1 each", root.measures, child.measures)
	}
}

func TestRenderListAfterMove(t *testing.T) {
	ctx := &testContext{}
	root := newRoot(ctx)
	root.SetHorizontalAlignment(geometry.AlignHStretch)
	root.SetVerticalAlignment(geometry.AlignVStretch)
	child := root.add(newPanel())
	child.SetWidth(10)
	child.SetHeight(10)
	ctx.m = nil

	root.Measure(geometry.RectFromLTWH(0, 0, 100, 100))
	list := ctx.m.RenderList()
	if len(list) != 2 || list[0] != Element(root) || list[1] != Element(child) {
		t.Errorf("render list = %v, want [root child]", list)
	}

	ctx.m.ClearRenderList()
	root.Measure(geometry.RectFromLTWH(0, 0, 100, 100))
	if ctx.m.DirtyRenderCount() != 0 {
		t.Error("unchanged measure should not schedule a redraw")
	}
}

func TestWalkFindHitTest(t *testing.T) {
	root := newPanel()
	root.SetID("root")
	root.SetHorizontalAlignment(geometry.AlignHStretch)
	root.SetVerticalAlignment(geometry.AlignVStretch)
	child := root.add(newPanel())
	child.SetID("child")
	child.SetWidth(10)
	child.SetHeight(10)
	root.Measure(geometry.RectFromLTWH(0, 0, 100, 100))

	if Find(root, "child") != Element(child) || Find(root, "missing") != nil {
		t.Error("Find returned unexpected element")
	}

	var depths []int
	Walk(root, func(_ Element, depth int) bool {
		depths = append(depths, depth)
		return true
	})
	if len(depths) != 2 || depths[0] != 0 || depths[1] != 1 {
		t.Errorf("Walk depths = %v", depths)
	}

	hits := HitTest(root, geometry.Offset{X: 5, Y: 5})
	if len(hits) != 2 || hits[0] != Element(child) {
		t.Errorf("HitTest = %v, want child then root", hits)
	}
	if hits := HitTest(root, geometry.Offset{X: 50, Y: 50}); len(hits) != 1 {
		t.Errorf("HitTest outside child = %d hits, want 1", len(hits))
	}
}
