package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/go-breeze/breeze/pkg/geometry"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RasterOptions configures a Raster backend.
type RasterOptions struct {
	// Background fills the surface at the start of every tick.
	Background geometry.Color
	// Scale multiplies surface coordinates into pixels. Zero means 1.
	Scale float64
	// DebugBounds outlines every filled rect and labels it with its size.
	DebugBounds bool
}

// Raster is a software Backend painting into an RGBA image. Drawing happens
// on a back buffer; Clear publishes it as the visible image and starts a new
// one.
type Raster struct {
	opts RasterOptions

	mu    sync.Mutex
	back  *image.RGBA
	front *image.RGBA
	size  geometry.Size
	drawn bool
}

var _ Backend = (*Raster)(nil)

// NewRaster creates a raster backend.
func NewRaster(opts RasterOptions) *Raster {
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Raster{opts: opts}
}

// BeginFrame sizes the back buffer to surface, keeping its content when the
// size is unchanged.
func (r *Raster) BeginFrame(surface geometry.Size) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drawn = true
	w := int(math.Ceil(surface.Width * r.opts.Scale))
	h := int(math.Ceil(surface.Height * r.opts.Scale))
	if r.back != nil && r.back.Bounds().Dx() == w && r.back.Bounds().Dy() == h {
		return
	}
	r.size = surface
	r.back = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	r.fillBackground(r.back)
}

// EndFrame is a no-op; pixels are written directly.
func (r *Raster) EndFrame() {}

// FillRect paints rect with c using source-over compositing.
func (r *Raster) FillRect(rect geometry.Rect, c geometry.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.back == nil {
		return
	}
	px := r.pixelRect(rect)
	draw.Draw(r.back, px, image.NewUniform(c.NRGBA()), image.Point{}, draw.Over)
	if r.opts.DebugBounds {
		r.outline(px)
		r.label(px, fmt.Sprintf("%gx%g", round2(rect.Width()), round2(rect.Height())))
	}
}

// Clear publishes the back buffer and resets it to the background. Ticks
// that opened no frame keep the last published image.
func (r *Raster) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.back == nil || !r.drawn {
		return
	}
	r.drawn = false
	if r.front == nil || r.front.Bounds() != r.back.Bounds() {
		r.front = image.NewRGBA(r.back.Bounds())
	}
	draw.Draw(r.front, r.front.Bounds(), r.back, image.Point{}, draw.Src)
	r.fillBackground(r.back)
}

// Image returns a copy of the last published frame, or of the frame in
// progress when nothing has been published yet. It returns nil before the
// first BeginFrame.
func (r *Raster) Image() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	src := r.front
	if src == nil {
		src = r.back
	}
	if src == nil {
		return nil
	}
	out := image.NewRGBA(src.Bounds())
	draw.Draw(out, out.Bounds(), src, image.Point{}, draw.Src)
	return out
}

// WritePNG encodes the current image as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	img := r.Image()
	if img == nil {
		return fmt.Errorf("render: no frame has been drawn")
	}
	return png.Encode(w, img)
}

func (r *Raster) fillBackground(img *image.RGBA) {
	draw.Draw(img, img.Bounds(), image.NewUniform(r.opts.Background.NRGBA()), image.Point{}, draw.Src)
}

func (r *Raster) pixelRect(rect geometry.Rect) image.Rectangle {
	s := r.opts.Scale
	return image.Rect(
		int(math.Floor(rect.Left*s)),
		int(math.Floor(rect.Top*s)),
		int(math.Ceil(rect.Right*s)),
		int(math.Ceil(rect.Bottom*s)),
	).Intersect(r.back.Bounds())
}

var debugColor = geometry.RGBA(0xFF, 0x00, 0xFF, 0xC0)

func (r *Raster) outline(px image.Rectangle) {
	if px.Empty() {
		return
	}
	src := image.NewUniform(debugColor.NRGBA())
	edges := []image.Rectangle{
		image.Rect(px.Min.X, px.Min.Y, px.Max.X, px.Min.Y+1),
		image.Rect(px.Min.X, px.Max.Y-1, px.Max.X, px.Max.Y),
		image.Rect(px.Min.X, px.Min.Y, px.Min.X+1, px.Max.Y),
		image.Rect(px.Max.X-1, px.Min.Y, px.Max.X, px.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(r.back, e, src, image.Point{}, draw.Over)
	}
}

func (r *Raster) label(px image.Rectangle, text string) {
	face := basicfont.Face7x13
	if px.Dy() < face.Height || px.Dx() < font.MeasureString(face, text).Ceil() {
		return
	}
	d := &font.Drawer{
		Dst:  r.back,
		Src:  image.NewUniform(debugColor.NRGBA()),
		Face: face,
		Dot:  fixed.P(px.Min.X+2, px.Min.Y+face.Ascent+1),
	}
	d.DrawString(text)
}
