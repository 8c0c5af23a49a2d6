// Package geometry provides the value types shared by the layout engine and
// render backends: rectangles, sizes, offsets, thickness, alignment and
// colors. All values are immutable and passed by value.
package geometry
