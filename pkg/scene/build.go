package scene

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-breeze/breeze/pkg/controls"
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
)

// Tree is a built scene.
type Tree struct {
	Root layout.Element
	ids  map[string]layout.Element
}

// Lookup returns the element with the given id, or nil.
func (t *Tree) Lookup(id string) layout.Element {
	return t.ids[id]
}

// IDs returns every element id in sorted order.
func (t *Tree) IDs() []string {
	ids := make([]string, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

type framework interface {
	layout.Element
	SetID(string)
	SetMargin(geometry.Thickness)
	SetWidth(float64)
	SetHeight(float64)
	SetMinWidth(float64)
	SetMinHeight(float64)
	SetMaxWidth(float64)
	SetMaxHeight(float64)
	SetHorizontalAlignment(geometry.HorizontalAlignment)
	SetVerticalAlignment(geometry.VerticalAlignment)
}

type backgrounder interface {
	SetBackground(geometry.Color)
}

// Build creates the element tree described by d.
func Build(d *Document) (*Tree, error) {
	if d == nil || d.Root == nil {
		return nil, fmt.Errorf("scene: missing root")
	}
	t := &Tree{ids: make(map[string]layout.Element)}
	root, err := t.build(d.Root, "root")
	if err != nil {
		return nil, err
	}
	t.Root = root
	return t, nil
}

func (t *Tree) build(n *Node, path string) (layout.Element, error) {
	if n == nil {
		return nil, fmt.Errorf("scene: %s: empty node", path)
	}
	kind := strings.ToLower(strings.TrimSpace(n.Kind))

	var e framework
	switch kind {
	case KindElement:
		e = layout.NewFrameworkElement()
	case KindControl:
		e = controls.NewControl()
	case KindContent:
		e = controls.NewContentControl()
	case KindItems:
		e = controls.NewItemsControl()
	case KindRectangle:
		e = controls.NewRectangle()
	case "":
		return nil, fmt.Errorf("scene: %s: missing kind", path)
	default:
		return nil, fmt.Errorf("scene: %s: unknown kind %q", path, n.Kind)
	}

	if n.Content != nil && kind != KindContent {
		return nil, fmt.Errorf("scene: %s: only %q nodes take content", path, KindContent)
	}
	if len(n.Children) > 0 && kind != KindItems {
		return nil, fmt.Errorf("scene: %s: only %q nodes take children", path, KindItems)
	}

	if err := t.apply(e, n, path); err != nil {
		return nil, err
	}

	switch c := e.(type) {
	case *controls.ContentControl:
		if n.Content != nil {
			child, err := t.build(n.Content, path+".content")
			if err != nil {
				return nil, err
			}
			c.SetContent(child)
		}
	case *controls.ItemsControl:
		children := make([]layout.Element, 0, len(n.Children))
		for i, cn := range n.Children {
			child, err := t.build(cn, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if len(children) > 0 {
			c.SetChildren(children)
		}
	}
	return e, nil
}

func (t *Tree) apply(e framework, n *Node, path string) error {
	if n.ID != "" {
		if _, dup := t.ids[n.ID]; dup {
			return fmt.Errorf("scene: %s: duplicate id %q", path, n.ID)
		}
		t.ids[n.ID] = e
		e.SetID(n.ID)
	}

	sizes := []struct {
		name string
		v    *float64
		set  func(float64)
		min  bool
	}{
		{"min_width", n.MinWidth, e.SetMinWidth, true},
		{"min_height", n.MinHeight, e.SetMinHeight, true},
		{"max_width", n.MaxWidth, e.SetMaxWidth, true},
		{"max_height", n.MaxHeight, e.SetMaxHeight, true},
		{"width", n.Width, e.SetWidth, false},
		{"height", n.Height, e.SetHeight, false},
	}
	for _, s := range sizes {
		if s.v == nil {
			continue
		}
		if s.min && *s.v < 0 {
			return fmt.Errorf("scene: %s: %s must not be negative", path, s.name)
		}
		if err := setSafely(func() { s.set(*s.v) }); err != nil {
			return fmt.Errorf("scene: %s: %s: %w", path, s.name, err)
		}
	}

	if n.Margin != nil {
		e.SetMargin(n.Margin.Thickness)
	}

	h, err := geometry.ParseHorizontalAlignment(n.HAlign)
	if err != nil {
		return fmt.Errorf("scene: %s: %w", path, err)
	}
	v, err := geometry.ParseVerticalAlignment(n.VAlign)
	if err != nil {
		return fmt.Errorf("scene: %s: %w", path, err)
	}
	if n.HAlign != "" {
		e.SetHorizontalAlignment(h)
	}
	if n.VAlign != "" {
		e.SetVerticalAlignment(v)
	}

	if n.Background != "" {
		b, ok := e.(backgrounder)
		if !ok {
			return fmt.Errorf("scene: %s: %q nodes have no background", path, n.Kind)
		}
		c, err := geometry.ParseColor(n.Background)
		if err != nil {
			return fmt.Errorf("scene: %s: %w", path, err)
		}
		b.SetBackground(c)
	}
	return nil
}

// setSafely turns a configuration panic from a property write into an error.
func setSafely(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	fn()
	return nil
}
