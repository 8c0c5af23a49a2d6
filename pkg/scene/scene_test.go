package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-breeze/breeze/pkg/controls"
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
)

type testContext struct {
	m *layout.Manager
}

func (c *testContext) LayoutManager() *layout.Manager {
	if c.m == nil {
		c.m = layout.NewManager()
	}
	return c.m
}

const centered = `
version: v1.0.0
title: centered
width: 500
height: 500
root:
  kind: rectangle
  id: box
  width: 50
  height: 50
  halign: center
  valign: center
`

const nested = `
version: "1.0"
root:
  kind: items
  id: panel
  halign: stretch
  valign: stretch
  margin: [10, 20]
  background: "#202020"
  children:
    - kind: rectangle
      id: a
      width: 20
      height: 20
      halign: right
      valign: bottom
    - kind: content
      id: frame
      width: 100
      height: 100
      content:
        kind: control
        id: inner
        halign: stretch
        valign: stretch
        margin: 5
        background: "#00FF00"
`

func show(t *testing.T, doc *Document) (*Tree, *controls.Host) {
	t.Helper()
	tree, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	size := doc.Size(geometry.Size{Width: 200, Height: 200})
	host := controls.NewHost(&testContext{}, doc.Title, size.Width, size.Height)
	host.SetContent(tree.Root)
	host.Show()
	return tree, host
}

func TestBuildCentered(t *testing.T) {
	doc, err := Parse([]byte(centered))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tree, _ := show(t, doc)

	box := tree.Lookup("box")
	if box == nil {
		t.Fatal("box not found")
	}
	want := geometry.RectFromLTWH(225, 225, 50, 50)
	if got := box.LayoutRect(); !got.IsCloseTo(want) {
		t.Errorf("box = %v, want %v", got, want)
	}
	if _, ok := box.(*controls.Rectangle); !ok {
		t.Errorf("box is %T, want *controls.Rectangle", box)
	}
}

func TestBuildNested(t *testing.T) {
	doc, err := Parse([]byte(nested))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Version != "v1.0.0" {
		t.Errorf("version = %q, want canonical v1.0.0", doc.Version)
	}
	tree, _ := show(t, doc)

	tests := []struct {
		id   string
		want geometry.Rect
	}{
		{"panel", geometry.RectFromLTWH(10, 20, 180, 160)},
		{"a", geometry.RectFromLTWH(170, 160, 20, 20)},
		{"frame", geometry.RectFromLTWH(10, 20, 100, 100)},
		{"inner", geometry.RectFromLTWH(15, 25, 90, 90)},
	}
	for _, tt := range tests {
		e := tree.Lookup(tt.id)
		if e == nil {
			t.Errorf("%s not found", tt.id)
			continue
		}
		if got := e.LayoutRect(); !got.IsCloseTo(tt.want) {
			t.Errorf("%s = %v, want %v", tt.id, got, tt.want)
		}
	}
	if got := strings.Join(tree.IDs(), ","); got != "a,frame,inner,panel" {
		t.Errorf("IDs = %s", got)
	}
	if bg := tree.Lookup("inner").(*controls.Control).Background(); bg != geometry.ColorGreen {
		t.Errorf("inner background = %v", bg)
	}
}

func TestVersionCheck(t *testing.T) {
	tests := []struct {
		version string
		ok      bool
	}{
		{"v1.0.0", true},
		{"1.0.0", true},
		{"v1", true},
		{"v1.1.0", false},
		{"v2.0.0", false},
		{"v0.9.0", false},
		{"latest", false},
		{"", false},
	}
	for _, tt := range tests {
		doc := &Document{Version: tt.version, Root: &Node{Kind: KindElement}}
		err := doc.Check()
		if (err == nil) != tt.ok {
			t.Errorf("Check(%q) = %v, want ok=%v", tt.version, err, tt.ok)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty document"},
		{"no root", "version: v1.0.0\n", "missing root"},
		{"unknown field", "version: v1.0.0\nroot:\n  kind: element\n  colour: red\n", "colour"},
		{"bad margin", "version: v1.0.0\nroot:\n  kind: element\n  margin: [1, 2, 3]\n", "1, 2 or 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	neg := -5.0
	tests := []struct {
		name string
		root *Node
		want string
	}{
		{"missing kind", &Node{}, "missing kind"},
		{"unknown kind", &Node{Kind: "button"}, "unknown kind"},
		{"children on rectangle", &Node{Kind: KindRectangle, Children: []*Node{{Kind: KindElement}}}, "children"},
		{"content on items", &Node{Kind: KindItems, Content: &Node{Kind: KindElement}}, "content"},
		{"background on element", &Node{Kind: KindElement, Background: "#FFFFFF"}, "no background"},
		{"bad color", &Node{Kind: KindControl, Background: "blue"}, "invalid color"},
		{"bad alignment", &Node{Kind: KindElement, HAlign: "middle"}, "horizontal alignment"},
		{"negative min", &Node{Kind: KindElement, MinWidth: &neg}, "min_width"},
		{"duplicate id", &Node{Kind: KindItems, Children: []*Node{
			{Kind: KindElement, ID: "x"},
			{Kind: KindElement, ID: "x"},
		}}, `duplicate id "x"`},
		{"nested path", &Node{Kind: KindContent, Content: &Node{Kind: "??"}}, "root.content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(&Document{Version: FormatVersion, Root: tt.root})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadAndMarshal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(nested), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	again, err := Parse(out)
	if err != nil {
		t.Fatalf("re-Parse: %v\n%s", err, out)
	}
	if again.Root.Children[0].ID != "a" || again.Root.Margin.Thickness != geometry.Symmetric(10, 20) {
		t.Errorf("document changed across marshal:\n%s", out)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
