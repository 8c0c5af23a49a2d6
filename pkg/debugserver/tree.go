package debugserver

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
)

// maxTreeDepth limits recursion on malformed trees.
const maxTreeDepth = 500

// TreeNode is one element in a tree snapshot.
type TreeNode struct {
	ID          string     `json:"id,omitempty"`
	Type        string     `json:"type"`
	Rect        SafeRect   `json:"rect"`
	Depth       int        `json:"depth"`
	Valid       bool       `json:"valid"`
	LayoutDirty bool       `json:"layoutDirty"`
	RenderDirty bool       `json:"renderDirty"`
	Children    []TreeNode `json:"children,omitempty"`
}

// HitEntry is one element under a hit-test point.
type HitEntry struct {
	ID   string   `json:"id,omitempty"`
	Type string   `json:"type"`
	Rect SafeRect `json:"rect"`
}

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// SafeRect is a JSON-safe rectangle in left, top, width, height form.
type SafeRect struct {
	Left   SafeFloat `json:"left"`
	Top    SafeFloat `json:"top"`
	Width  SafeFloat `json:"width"`
	Height SafeFloat `json:"height"`
}

func safeRect(r geometry.Rect) SafeRect {
	return SafeRect{
		Left:   SafeFloat(r.Left),
		Top:    SafeFloat(r.Top),
		Width:  SafeFloat(r.Width()),
		Height: SafeFloat(r.Height()),
	}
}

func typeName(e layout.Element) string {
	if t := e.DependencyType(); t != nil {
		return t.Name()
	}
	return fmt.Sprintf("%T", e)
}

// Snapshot serializes the tree under root. It must run on the owner
// goroutine.
func Snapshot(root layout.Element) TreeNode {
	return snapshot(root, 0)
}

func snapshot(e layout.Element, depth int) TreeNode {
	n := TreeNode{
		ID:          e.ID(),
		Type:        typeName(e),
		Rect:        safeRect(e.LayoutRect()),
		Depth:       depth,
		Valid:       e.IsValid(),
		LayoutDirty: e.IsLayoutDirty(),
		RenderDirty: e.IsRenderDirty(),
	}
	if depth >= maxTreeDepth {
		return n
	}
	if c, ok := e.(layout.Container); ok {
		c.VisitChildren(func(child layout.Element) {
			n.Children = append(n.Children, snapshot(child, depth+1))
		})
	}
	return n
}
