// Package surface defines the minimal 2D drawing surface the grid renderer
// draws on. Backends (command recorder, software rasterizers, terminal cell
// grid) implement Surface and are interchangeable.
//
// Coordinates are user-space pixels. Save/Restore bracket transform, clip and
// style state; ClipRect intersects with the current clip.
package surface

import (
	"errors"
	"image/color"
)

// ErrUnsupported is returned by backends that cannot perform an operation,
// e.g. filling an arbitrary path. Callers degrade instead of aborting.
var ErrUnsupported = errors.New("surface: operation not supported")

// Font selects a face. Size is in user-space pixels.
type Font struct {
	Family string
	Size   float64
	Bold   bool
}

// Surface is the drawing contract.
type Surface interface {
	// Save pushes transform, clip and style state.
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()
	// Translate moves the origin by (dx, dy).
	Translate(dx, dy float64)
	// ClipRect intersects the clip region with the rectangle.
	ClipRect(x, y, w, h float64)

	SetFill(c color.Color)
	SetStroke(c color.Color, width float64, dash []float64)
	SetFont(f Font)

	FillRect(x, y, w, h float64)
	StrokeLine(x1, y1, x2, y2 float64)

	// MeasureText returns the advance width of s in the current font.
	MeasureText(s string) float64
	// FillText draws s left-aligned at x and vertically centered on y,
	// never wider than maxWidth.
	FillText(s string, x, y, maxWidth float64)
}

// PathSurface is implemented by backends that can fill arbitrary paths.
type PathSurface interface {
	Surface

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc appends a circular arc around (cx, cy) from angle a0 to a1
	// (radians, clockwise in y-down space).
	Arc(cx, cy, r, a0, a1 float64)
	ClosePath()
	// FillPath fills and clears the current path with the fill color.
	FillPath() error
}

// Scope saves s and returns the matching restore, for use with defer:
//
//	defer surface.Scope(s)()
func Scope(s Surface) func() {
	s.Save()
	return s.Restore
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return !(r.W > 0) || !(r.H > 0)
}

// Intersect returns the overlap of r and o, or a zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}
