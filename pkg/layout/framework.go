package layout

import (
	"math"

	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/property"
)

// FrameworkElementType is the type table entry of FrameworkElement.
var FrameworkElementType = property.NewType("FrameworkElement", ElementType)

func layoutMeta(def any) *property.FrameworkMetadata {
	return &property.FrameworkMetadata{
		PropertyMetadata: property.PropertyMetadata{Default: def},
		Flags:            property.AffectsLayout,
	}
}

var (
	HorizontalAlignmentProperty = property.MustRegister[geometry.HorizontalAlignment]("HorizontalAlignment", FrameworkElementType, layoutMeta(geometry.AlignLeft), nil)
	VerticalAlignmentProperty   = property.MustRegister[geometry.VerticalAlignment]("VerticalAlignment", FrameworkElementType, layoutMeta(geometry.AlignTop), nil)

	// WidthProperty is the requested width; NaN sizes the element automatically.
	WidthProperty    = property.MustRegister[float64]("Width", FrameworkElementType, layoutMeta(math.NaN()), nil)
	MinWidthProperty = property.MustRegister[float64]("MinWidth", FrameworkElementType, layoutMeta(0.0), nonNegative)
	MaxWidthProperty = property.MustRegister[float64]("MaxWidth", FrameworkElementType, layoutMeta(math.Inf(1)), nonNegative)

	// HeightProperty is the requested height; NaN sizes the element automatically.
	HeightProperty    = property.MustRegister[float64]("Height", FrameworkElementType, layoutMeta(math.NaN()), nil)
	MinHeightProperty = property.MustRegister[float64]("MinHeight", FrameworkElementType, layoutMeta(0.0), nonNegative)
	MaxHeightProperty = property.MustRegister[float64]("MaxHeight", FrameworkElementType, layoutMeta(math.Inf(1)), nonNegative)
)

func nonNegative(v any) bool {
	f, ok := v.(float64)
	return ok && !math.IsNaN(f) && f >= 0
}

func init() {
	MarginProperty.OverrideMetadata(FrameworkElementType, layoutMeta(geometry.Thickness{}))
	IsMouseOverProperty.OverrideMetadata(FrameworkElementType, &property.FrameworkMetadata{
		PropertyMetadata: property.PropertyMetadata{Default: false},
		Flags:            property.AffectsRender,
	})
	ParentProperty.OverrideMetadata(FrameworkElementType, &property.FrameworkMetadata{
		PropertyMetadata: property.PropertyMetadata{OnChanged: onParentChanged},
		Flags:            property.AffectsLayout,
	})
}

// FrameworkElement adds sizing and alignment to ElementBase.
type FrameworkElement struct {
	ElementBase

	// BypassMeasurement makes MeasureCore return the available rectangle
	// unchanged and stops Width and Height from invalidating layout. Hosts
	// whose size is driven externally set it.
	BypassMeasurement bool
}

// NewFrameworkElement creates a standalone framework element.
func NewFrameworkElement() *FrameworkElement {
	e := &FrameworkElement{}
	e.SetSelf(e)
	return e
}

// DependencyType returns FrameworkElementType.
func (e *FrameworkElement) DependencyType() *property.Type {
	return FrameworkElementType
}

func (e *FrameworkElement) Width() float64         { return WidthProperty.Get(e.self) }
func (e *FrameworkElement) SetWidth(v float64)     { WidthProperty.Set(e.self, v) }
func (e *FrameworkElement) Height() float64        { return HeightProperty.Get(e.self) }
func (e *FrameworkElement) SetHeight(v float64)    { HeightProperty.Set(e.self, v) }
func (e *FrameworkElement) MinWidth() float64      { return MinWidthProperty.Get(e.self) }
func (e *FrameworkElement) SetMinWidth(v float64)  { MinWidthProperty.Set(e.self, v) }
func (e *FrameworkElement) MaxWidth() float64      { return MaxWidthProperty.Get(e.self) }
func (e *FrameworkElement) SetMaxWidth(v float64)  { MaxWidthProperty.Set(e.self, v) }
func (e *FrameworkElement) MinHeight() float64     { return MinHeightProperty.Get(e.self) }
func (e *FrameworkElement) SetMinHeight(v float64) { MinHeightProperty.Set(e.self, v) }
func (e *FrameworkElement) MaxHeight() float64     { return MaxHeightProperty.Get(e.self) }
func (e *FrameworkElement) SetMaxHeight(v float64) { MaxHeightProperty.Set(e.self, v) }

// HorizontalAlignment returns the horizontal placement within the parent slot.
func (e *FrameworkElement) HorizontalAlignment() geometry.HorizontalAlignment {
	return HorizontalAlignmentProperty.Get(e.self)
}

// SetHorizontalAlignment sets the horizontal placement.
func (e *FrameworkElement) SetHorizontalAlignment(a geometry.HorizontalAlignment) {
	HorizontalAlignmentProperty.Set(e.self, a)
}

// VerticalAlignment returns the vertical placement within the parent slot.
func (e *FrameworkElement) VerticalAlignment() geometry.VerticalAlignment {
	return VerticalAlignmentProperty.Get(e.self)
}

// SetVerticalAlignment sets the vertical placement.
func (e *FrameworkElement) SetVerticalAlignment(a geometry.VerticalAlignment) {
	VerticalAlignmentProperty.Set(e.self, a)
}

// MeasureCore places the element inside available minus its margin according
// to its alignment, then clamps the size to its min and max bounds. The max
// bound never exceeds the available size unless the min bound does.
func (e *FrameworkElement) MeasureCore(available geometry.Rect) geometry.Rect {
	if e.BypassMeasurement {
		return available
	}

	area := available.Deflate(e.Margin())
	layout := e.AlignmentLayout(area, e.SuitableWidth(area), e.SuitableHeight(area))

	minW, minH := e.MinWidth(), e.MinHeight()
	maxW := geometry.Clamp(e.MaxWidth(), minW, area.Width())
	maxH := geometry.Clamp(e.MaxHeight(), minH, area.Height())

	if w := layout.Width(); w < minW {
		layout = layout.WithWidth(minW)
	} else if w > maxW {
		layout = layout.WithWidth(maxW)
	}
	if h := layout.Height(); h < minH {
		layout = layout.WithHeight(minH)
	} else if h > maxH {
		layout = layout.WithHeight(maxH)
	}
	return layout
}

// AlignmentLayout positions a width x height box inside area. Stretch fills
// the axis and ignores the requested size.
func (e *FrameworkElement) AlignmentLayout(area geometry.Rect, width, height float64) geometry.Rect {
	var x, y, w, h float64
	switch e.HorizontalAlignment() {
	case geometry.AlignHCenter:
		x, w = area.Left+area.Width()/2-width/2, width
	case geometry.AlignHStretch:
		x, w = area.Left, area.Width()
	case geometry.AlignRight:
		x, w = area.Right-width, width
	default:
		x, w = area.Left, width
	}
	switch e.VerticalAlignment() {
	case geometry.AlignVCenter:
		y, h = area.Top+area.Height()/2-height/2, height
	case geometry.AlignVStretch:
		y, h = area.Top, area.Height()
	case geometry.AlignBottom:
		y, h = area.Bottom-height, height
	default:
		y, h = area.Top, height
	}
	return geometry.RectFromLTWH(x, y, w, h)
}

// SuitableWidth resolves the requested width against area: NaN falls back to
// MinWidth, infinity to MaxWidth or the area width, and the result is clamped
// to the min and max bounds.
func (e *FrameworkElement) SuitableWidth(area geometry.Rect) float64 {
	return suitable(e.Width(), e.MinWidth(), e.MaxWidth(), area.Width())
}

// SuitableHeight is SuitableWidth for the vertical axis.
func (e *FrameworkElement) SuitableHeight(area geometry.Rect) float64 {
	return suitable(e.Height(), e.MinHeight(), e.MaxHeight(), area.Height())
}

func suitable(v, lo, hi, extent float64) float64 {
	switch {
	case math.IsNaN(v):
		v = lo
	case math.IsInf(v, 0):
		if math.IsInf(hi, 0) {
			v = extent
		} else {
			v = hi
		}
	}
	return geometry.Clamp(v, lo, hi)
}

// PropertyChanged interprets framework metadata flags: parent layout,
// own layout (except Width and Height when measurement is bypassed) and
// render.
func (e *FrameworkElement) PropertyChanged(d *property.Descriptor, meta property.Metadata, _, _ any) {
	flags, ok := property.FlagsOf(meta)
	if !ok {
		return
	}
	if flags.Has(property.AffectsParentLayout) {
		if p := e.Parent(); p != nil {
			p.InvalidateLayout()
		}
	}
	if flags.Has(property.AffectsLayout) && !(e.BypassMeasurement && isSizeProperty(d)) {
		e.InvalidateLayout()
	}
	if flags.Has(property.AffectsRender) {
		e.InvalidateVisual()
	}
}

func isSizeProperty(d *property.Descriptor) bool {
	return d == WidthProperty.Descriptor() || d == HeightProperty.Descriptor()
}
