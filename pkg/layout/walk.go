package layout

import "github.com/go-breeze/breeze/pkg/geometry"

// Walk visits root and its descendants depth first, parents before children.
// Returning false from fn skips the element's children.
func Walk(root Element, fn func(e Element, depth int) bool) {
	walk(root, 0, fn)
}

func walk(e Element, depth int, fn func(Element, int) bool) {
	if e == nil || !fn(e, depth) {
		return
	}
	if c, ok := e.(Container); ok {
		c.VisitChildren(func(child Element) {
			walk(child, depth+1, fn)
		})
	}
}

// Find returns the first element under root with the given id.
func Find(root Element, id string) Element {
	var found Element
	Walk(root, func(e Element, _ int) bool {
		if found != nil {
			return false
		}
		if e.ID() == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// HitTest returns the elements whose layout rectangle contains position,
// deepest first.
func HitTest(root Element, position geometry.Offset) []Element {
	var hits []Element
	Walk(root, func(e Element, _ int) bool {
		r := e.LayoutRect()
		if position.X < r.Left || position.X >= r.Right || position.Y < r.Top || position.Y >= r.Bottom {
			return true
		}
		hits = append(hits, e)
		return true
	})
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return hits
}
