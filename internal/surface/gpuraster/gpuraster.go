// Package gpuraster is a raster backend on top of gogpu/gg.
//
// gogpu/gg transforms path points but not arc radii, and draws text at raw
// device coordinates without consulting the clip. The backend therefore keeps
// its own translation and clip stacks, hands gg device coordinates with an
// identity matrix, and rasterizes text that crosses the clip edge into a
// scratch image bounded by the clip before compositing it.
package gpuraster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"gridpane/internal/fontcache"
	"gridpane/internal/log"
	"gridpane/internal/surface"
)

type state struct {
	tx, ty float64
	clip   surface.Rect // device pixels

	fill        color.Color
	stroke      color.Color
	strokeWidth float64
	dash        []float64
	font        surface.Font
	face        text.Face
}

// Surface renders through a gogpu/gg Context.
type Surface struct {
	dc     *gg.Context
	zoom   float64
	bounds image.Rectangle // device pixels

	faces *fontcache.Cache[text.Face]

	cur   state
	stack []state
}

var _ surface.PathSurface = (*Surface)(nil)

// New creates a surface of width×height user-space pixels at zoom.
func New(width, height, zoom float64) *Surface {
	if zoom <= 0 {
		zoom = 1
	}
	w := max(int(math.Ceil(width*zoom)), 1)
	h := max(int(math.Ceil(height*zoom)), 1)

	s := &Surface{
		dc:     gg.NewContext(w, h),
		zoom:   zoom,
		bounds: image.Rect(0, 0, w, h),
		cur: state{
			clip:        surface.Rect{W: float64(w), H: float64(h)},
			fill:        color.Black,
			stroke:      color.Black,
			strokeWidth: 1,
		},
	}
	s.faces = fontcache.New("gogpu", loadFace)
	s.faces.SetZoom(zoom)
	return s
}

// sources is shared by every gogpu surface; a FontSource is safe for
// concurrent use and outlives the surfaces that borrow faces from it.
var sources = fontcache.NewParsed("gogpu", func(ttf []byte) (*text.FontSource, error) {
	return text.NewFontSource(ttf)
})

func loadFace(k fontcache.Key) (text.Face, error) {
	src, err := sources.Get(k.Family, k.Bold)
	if err != nil {
		return nil, err
	}
	return src.Face(k.DeviceSize()), nil
}

// Close releases the context.
func (s *Surface) Close() error {
	return s.dc.Close()
}

// Clear fills the whole image with c, ignoring clip and transform.
func (s *Surface) Clear(c color.Color) {
	s.dc.ClearWithColor(gg.FromColor(c))
}

// Image returns the rendered image.
func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the image to path.
func (s *Surface) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// EncodePNG writes the image to w.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

func (s *Surface) device(x, y float64) (float64, float64) {
	return (x + s.cur.tx) * s.zoom, (y + s.cur.ty) * s.zoom
}

func (s *Surface) Save() {
	s.dc.Push()
	st := s.cur
	st.dash = append([]float64(nil), s.cur.dash...)
	s.stack = append(s.stack, st)
}

func (s *Surface) Restore() {
	n := len(s.stack)
	if n == 0 {
		log.Warn(log.CatSurface, "unbalanced restore", "backend", "gogpu")
		return
	}
	s.cur = s.stack[n-1]
	s.stack = s.stack[:n-1]
	s.dc.Pop()
	s.dc.SetFont(s.cur.face)
}

func (s *Surface) Translate(dx, dy float64) {
	s.cur.tx += dx
	s.cur.ty += dy
}

func (s *Surface) ClipRect(x, y, w, h float64) {
	dx, dy := s.device(x, y)
	r := surface.Rect{X: dx, Y: dy, W: w * s.zoom, H: h * s.zoom}
	s.cur.clip = s.cur.clip.Intersect(r)
	s.dc.ClipRect(r.X, r.Y, r.W, r.H)
}

func (s *Surface) SetFill(c color.Color) {
	s.cur.fill = c
}

func (s *Surface) SetStroke(c color.Color, width float64, dash []float64) {
	s.cur.stroke = c
	s.cur.strokeWidth = width
	s.cur.dash = append([]float64(nil), dash...)
}

func (s *Surface) SetFont(f surface.Font) {
	s.cur.font = f
	face, err := s.faces.Face(f)
	if err != nil {
		log.ErrorErr(log.CatFont, "face unavailable", err, "family", f.Family)
		return
	}
	s.cur.face = face
	s.dc.SetFont(face)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	dx, dy := s.device(x, y)
	s.dc.DrawRectangle(dx, dy, w*s.zoom, h*s.zoom)
	s.dc.SetColor(s.cur.fill)
	if err := s.dc.Fill(); err != nil {
		log.Warn(log.CatSurface, "fill failed", "backend", "gogpu", "error", err)
	}
}

func (s *Surface) StrokeLine(x1, y1, x2, y2 float64) {
	s.dc.SetColor(s.cur.stroke)
	s.dc.SetLineWidth(s.cur.strokeWidth * s.zoom)
	if len(s.cur.dash) == 0 {
		s.dc.ClearDash()
	} else {
		dash := make([]float64, len(s.cur.dash))
		for i, d := range s.cur.dash {
			dash[i] = d * s.zoom
		}
		s.dc.SetDash(dash...)
	}
	ax, ay := s.device(x1, y1)
	bx, by := s.device(x2, y2)
	s.dc.DrawLine(ax, ay, bx, by)
	if err := s.dc.Stroke(); err != nil {
		log.Warn(log.CatSurface, "stroke failed", "backend", "gogpu", "error", err)
	}
}

func (s *Surface) MeasureText(t string) float64 {
	w, _ := s.dc.MeasureString(t)
	return w / s.zoom
}

func (s *Surface) FillText(t string, x, y, maxWidth float64) {
	if t == "" || maxWidth <= 0 || s.cur.face == nil {
		return
	}
	w, h := s.dc.MeasureString(t)
	dx, dy := s.device(x, y)
	box := surface.Rect{X: dx, Y: dy - h/2, W: w, H: h}
	if contains(s.cur.clip, box) {
		s.dc.SetColor(s.cur.fill)
		s.dc.DrawStringAnchored(t, dx, dy, 0, 0.5)
		return
	}
	s.fillTextClipped(t, dx, dy+h/2, box)
}

// clipSlop absorbs rounding in clip rects rebuilt from translated edges.
const clipSlop = 1e-6

func contains(clip, box surface.Rect) bool {
	return clip.X-clipSlop <= box.X && box.X+box.W <= clip.X+clip.W+clipSlop &&
		clip.Y-clipSlop <= box.Y && box.Y+box.H <= clip.Y+clip.H+clipSlop
}

// pixelRect returns the device pixels whose centers lie inside r.
func pixelRect(r surface.Rect) image.Rectangle {
	return image.Rect(
		int(math.Ceil(r.X-0.5)), int(math.Ceil(r.Y-0.5)),
		int(math.Ceil(r.X+r.W-0.5)), int(math.Ceil(r.Y+r.H-0.5)),
	)
}

// glyphOverhang pads the advance box for ink that extends past it.
const glyphOverhang = 2

// fillTextClipped draws the run with its baseline origin at device (x, baseline)
// into a scratch image covering only the visible part of box, then composites
// the scratch image onto the context.
func (s *Surface) fillTextClipped(t string, x, baseline float64, box surface.Rect) {
	ink := pixelRect(box).Inset(-glyphOverhang)
	region := ink.Intersect(pixelRect(s.cur.clip)).Intersect(s.bounds)
	if region.Empty() {
		return
	}

	scratch := image.NewNRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	text.Draw(scratch, t, s.cur.face, x-float64(region.Min.X), baseline-float64(region.Min.Y), s.cur.fill)

	s.dc.DrawImageEx(gg.ImageBufFromImage(scratch), gg.DrawImageOptions{
		X:             float64(region.Min.X),
		Y:             float64(region.Min.Y),
		Interpolation: gg.InterpNearest,
		Opacity:       1,
		BlendMode:     gg.BlendNormal,
	})
}

func (s *Surface) BeginPath() {
	s.dc.ClearPath()
}

func (s *Surface) MoveTo(x, y float64) {
	s.dc.MoveTo(s.device(x, y))
}

func (s *Surface) LineTo(x, y float64) {
	s.dc.LineTo(s.device(x, y))
}

func (s *Surface) Arc(cx, cy, r, a0, a1 float64) {
	dx, dy := s.device(cx, cy)
	s.dc.DrawArc(dx, dy, r*s.zoom, a0, a1)
}

func (s *Surface) ClosePath() {
	s.dc.ClosePath()
}

func (s *Surface) FillPath() error {
	s.dc.SetColor(s.cur.fill)
	if err := s.dc.Fill(); err != nil {
		return fmt.Errorf("gogpu fill path: %w", err)
	}
	return nil
}
