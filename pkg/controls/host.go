package controls

import (
	"github.com/go-breeze/breeze/pkg/geometry"
	"github.com/go-breeze/breeze/pkg/layout"
	"github.com/go-breeze/breeze/pkg/property"
)

// HostType is the type table entry of Host.
var HostType = property.NewType("Host", ContentControlType)

// TitleProperty is the host surface title.
var TitleProperty = property.MustRegister[string]("Title", HostType, nil, nil)

// Host is the root of an element tree. Its size follows the surface it is
// shown on rather than its own measurement.
type Host struct {
	ContentControl
}

var _ layout.RootUpdater = (*Host)(nil)

// NewHost creates a host of the given size bound to ctx.
func NewHost(ctx layout.Context, title string, width, height float64) *Host {
	h := &Host{}
	h.SetSelf(h)
	h.BypassMeasurement = true
	h.SetContext(ctx)
	h.SetTitle(title)
	h.Resize(geometry.Size{Width: width, Height: height})
	return h
}

// DependencyType returns HostType.
func (h *Host) DependencyType() *property.Type {
	return HostType
}

// Title returns the host title.
func (h *Host) Title() string {
	return TitleProperty.Get(h)
}

// SetTitle sets the host title.
func (h *Host) SetTitle(title string) {
	TitleProperty.Set(h, title)
}

// Show marks the host valid and lays it out.
func (h *Host) Show() {
	h.Validate(true)
	h.UpdateLayout()
}

// Resize records a new surface size without change notifications and lays
// the tree out again.
func (h *Host) Resize(size geometry.Size) {
	property.Suspended(h, func() {
		h.SetWidth(size.Width)
		h.SetHeight(size.Height)
	}, layout.WidthProperty.Descriptor(), layout.HeightProperty.Descriptor())
	if h.IsValid() {
		h.UpdateLayout()
	}
}

// UpdateLayout measures the host against its own size.
func (h *Host) UpdateLayout() {
	h.MarkLayoutDirty()
	h.Measure(geometry.RectFromLTWH(0, 0, h.Width(), h.Height()))
}
