// Package scene loads element trees from YAML documents.
//
// A document names a format version and a root node:
//
//	version: v1.0.0
//	title: demo
//	width: 500
//	height: 500
//	root:
//	  kind: rectangle
//	  id: box
//	  width: 50
//	  height: 50
//	  halign: center
//	  valign: center
//
// Build turns the root node into an element tree ready to be placed inside a
// host.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-breeze/breeze/pkg/geometry"
)

// FormatVersion is the newest document format this package reads.
const FormatVersion = "v1.0.0"

// Node kinds.
const (
	KindElement   = "element"
	KindControl   = "control"
	KindContent   = "content"
	KindItems     = "items"
	KindRectangle = "rectangle"
)

// Document is a parsed scene file.
type Document struct {
	Version string  `yaml:"version"`
	Title   string  `yaml:"title,omitempty"`
	Width   float64 `yaml:"width,omitempty"`
	Height  float64 `yaml:"height,omitempty"`
	Root    *Node   `yaml:"root"`
}

// Node describes one element. Unset size fields keep the element defaults.
type Node struct {
	Kind       string   `yaml:"kind"`
	ID         string   `yaml:"id,omitempty"`
	Width      *float64 `yaml:"width,omitempty"`
	Height     *float64 `yaml:"height,omitempty"`
	MinWidth   *float64 `yaml:"min_width,omitempty"`
	MinHeight  *float64 `yaml:"min_height,omitempty"`
	MaxWidth   *float64 `yaml:"max_width,omitempty"`
	MaxHeight  *float64 `yaml:"max_height,omitempty"`
	Margin     *Margin  `yaml:"margin,omitempty"`
	HAlign     string   `yaml:"halign,omitempty"`
	VAlign     string   `yaml:"valign,omitempty"`
	Background string   `yaml:"background,omitempty"`
	Content    *Node    `yaml:"content,omitempty"`
	Children   []*Node  `yaml:"children,omitempty"`
}

// Margin is a thickness written as one number (all sides), two numbers
// (horizontal, vertical) or four numbers (left, top, right, bottom).
type Margin struct {
	geometry.Thickness
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Margin) UnmarshalYAML(n *yaml.Node) error {
	var vals []float64
	switch n.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := n.Decode(&v); err != nil {
			return err
		}
		vals = []float64{v}
	case yaml.SequenceNode:
		if err := n.Decode(&vals); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: margin must be a number or a list of numbers", n.Line)
	}
	switch len(vals) {
	case 1:
		m.Thickness = geometry.Uniform(vals[0])
	case 2:
		m.Thickness = geometry.Symmetric(vals[0], vals[1])
	case 4:
		m.Thickness = geometry.Thickness{Left: vals[0], Top: vals[1], Right: vals[2], Bottom: vals[3]}
	default:
		return fmt.Errorf("line %d: margin takes 1, 2 or 4 numbers, got %d", n.Line, len(vals))
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (m Margin) MarshalYAML() (any, error) {
	t := m.Thickness
	return []float64{t.Left, t.Top, t.Right, t.Bottom}, nil
}

// Parse decodes and checks a scene document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("scene: empty document")
		}
		return nil, fmt.Errorf("scene: %w", err)
	}
	if err := doc.Check(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return Parse(data)
}

// Check validates the format version and the presence of a root node.
func (d *Document) Check() error {
	v := d.Version
	if v == "" {
		return fmt.Errorf("scene: missing version")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("scene: invalid version %q", d.Version)
	}
	if semver.Major(v) != semver.Major(FormatVersion) || semver.Compare(v, FormatVersion) > 0 {
		return fmt.Errorf("scene: unsupported version %s (this build reads up to %s)", v, FormatVersion)
	}
	d.Version = semver.Canonical(v)
	if d.Root == nil {
		return fmt.Errorf("scene: missing root")
	}
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("scene: negative surface size")
	}
	return nil
}

// Size returns the document surface size, falling back to def for unset
// dimensions.
func (d *Document) Size(def geometry.Size) geometry.Size {
	s := def
	if d.Width > 0 {
		s.Width = d.Width
	}
	if d.Height > 0 {
		s.Height = d.Height
	}
	return s
}

// Marshal encodes d as YAML.
func Marshal(d *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
