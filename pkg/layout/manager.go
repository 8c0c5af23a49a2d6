package layout

import (
	"slices"

	"github.com/go-breeze/breeze/pkg/geometry"
)

// elementSet is an insertion-ordered set of elements.
type elementSet struct {
	items []Element
	index map[Element]struct{}
}

func (s *elementSet) add(e Element) bool {
	if s.index == nil {
		s.index = make(map[Element]struct{})
	}
	if _, ok := s.index[e]; ok {
		return false
	}
	s.index[e] = struct{}{}
	s.items = append(s.items, e)
	return true
}

func (s *elementSet) contains(e Element) bool {
	_, ok := s.index[e]
	return ok
}

func (s *elementSet) len() int {
	return len(s.items)
}

// Manager tracks the elements that need re-measurement (the arrange queue)
// and redrawing (the render list) during one tick.
//
// Managers are created on demand by the application context and discarded
// after the tick that processed them.
type Manager struct {
	active  bool
	arrange elementSet
	render  elementSet
}

// NewManager creates an inactive manager with empty queues.
func NewManager() *Manager {
	return &Manager{}
}

// Activate marks the start of a measure pass.
func (m *Manager) Activate() {
	m.active = true
}

// Deactivate marks the end of a measure pass.
func (m *Manager) Deactivate() {
	m.active = false
}

// IsActive reports whether a measure pass is running.
func (m *Manager) IsActive() bool {
	return m.active
}

// ScheduleArrange adds e to the arrange queue. Re-adding is a no-op.
func (m *Manager) ScheduleArrange(e Element) {
	m.arrange.add(e)
}

// ScheduleRender adds e to the render list. Re-adding is a no-op.
func (m *Manager) ScheduleRender(e Element) {
	m.render.add(e)
}

// ArrangeQueue returns the arrange queue in insertion order.
func (m *Manager) ArrangeQueue() []Element {
	return slices.Clone(m.arrange.items)
}

// RenderList returns the render list ordered parents first, so that a
// parent's drawing never covers a child's. Elements at the same depth keep
// insertion order. Elements detached since they were scheduled are left out.
func (m *Manager) RenderList() []Element {
	list := slices.DeleteFunc(slices.Clone(m.render.items), func(e Element) bool {
		return !IsAttached(e)
	})
	depths := make(map[Element]int, len(list))
	for _, e := range list {
		depths[e] = Depth(e)
	}
	slices.SortStableFunc(list, func(a, b Element) int {
		return depths[a] - depths[b]
	})
	return list
}

// ClearRenderList empties the render list.
func (m *Manager) ClearRenderList() {
	m.render = elementSet{}
}

// DirtyArrangeCount returns the size of the arrange queue.
func (m *Manager) DirtyArrangeCount() int {
	return m.arrange.len()
}

// DirtyRenderCount returns the size of the render list.
func (m *Manager) DirtyRenderCount() int {
	return m.render.len()
}

// TopLevel collapses elements to their top-most members: every element is
// replaced by its highest ancestor that is itself in elements. The walk runs
// twice so that ancestors promoted by the first walk are collapsed as well.
// The result keeps first-seen order and has no duplicates.
func TopLevel(elements []Element) []Element {
	var dirty elementSet
	for _, e := range elements {
		dirty.add(e)
	}

	collapse := func(in []Element) []Element {
		var out elementSet
		for _, e := range in {
			top := e
			for p := e.Parent(); p != nil && dirty.contains(p); p = p.Parent() {
				top = p
			}
			out.add(top)
		}
		return out.items
	}
	return collapse(collapse(dirty.items))
}

// UpdateLayout runs the measure pass for the tick.
//
// A layout-dirty root is re-measured first, which reaches the dirty
// descendants it recurses into. The arrange queue is then collapsed with
// TopLevel and each top-level element that is still dirty is measured
// against its parent's rectangle, or the root's when it has no parent.
// Elements already mid-measure or no longer attached are skipped. Elements invalidated during the
// pass stay queued for the next one.
func (m *Manager) UpdateLayout(root Element) {
	queue := m.arrange.items
	m.arrange = elementSet{}

	if root != nil && root.IsLayoutDirty() && root.IsValid() {
		if ru, ok := root.(RootUpdater); ok {
			ru.UpdateLayout()
		} else {
			root.Measure(root.LayoutRect())
		}
	}

	var rootRect geometry.Rect
	if root != nil {
		rootRect = root.LayoutRect()
	}
	for _, e := range TopLevel(queue) {
		if e.IsMeasuring() || !e.IsLayoutDirty() || !IsAttached(e) {
			continue
		}
		if p := e.Parent(); p != nil {
			e.Measure(p.LayoutRect())
		} else {
			e.Measure(rootRect)
		}
	}
}
