// Package ggraster is a software raster backend on top of fogleman/gg.
package ggraster

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"gridpane/internal/fontcache"
	"gridpane/internal/log"
	"gridpane/internal/surface"
)

type state struct {
	fill        color.Color
	stroke      color.Color
	strokeWidth float64
	dash        []float64
	font        surface.Font
}

// Surface draws into an in-memory RGBA image. User-space coordinates are
// scaled by the zoom factor into device pixels.
type Surface struct {
	dc    *gg.Context
	zoom  float64
	faces *fontcache.Cache[font.Face]

	cur   state
	stack []state
}

var _ surface.PathSurface = (*Surface)(nil)

// New creates a surface of width×height user-space pixels at zoom.
func New(width, height, zoom float64) *Surface {
	if zoom <= 0 {
		zoom = 1
	}
	w := int(math.Ceil(width * zoom))
	h := int(math.Ceil(height * zoom))

	dc := gg.NewContext(max(w, 1), max(h, 1))
	dc.Scale(zoom, zoom)

	faces := fontcache.New("gg", loadFace)
	faces.SetZoom(zoom)

	return &Surface{
		dc:    dc,
		zoom:  zoom,
		faces: faces,
		cur: state{
			fill:        color.Black,
			stroke:      color.Black,
			strokeWidth: 1,
		},
	}
}

// fonts is shared by every gg surface. A truetype.Font is immutable once
// parsed; the faces built from it keep glyph caches and stay per surface.
var fonts = fontcache.NewParsed("gg", truetype.Parse)

func loadFace(k fontcache.Key) (font.Face, error) {
	ttf, err := fonts.Get(k.Family, k.Bold)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    k.DeviceSize(),
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Clear fills the whole image with c, ignoring clip and transform.
func (s *Surface) Clear(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Clear()
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

func (s *Surface) Save() {
	s.dc.Push()
	st := s.cur
	st.dash = append([]float64(nil), s.cur.dash...)
	s.stack = append(s.stack, st)
}

func (s *Surface) Restore() {
	n := len(s.stack)
	if n == 0 {
		log.Warn(log.CatSurface, "unbalanced restore", "backend", "gg")
		return
	}
	s.cur = s.stack[n-1]
	s.stack = s.stack[:n-1]
	s.dc.Pop()
}

func (s *Surface) Translate(dx, dy float64) {
	s.dc.Translate(dx, dy)
}

func (s *Surface) ClipRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Clip()
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
	s.dc.SetFontFace(face)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetColor(s.cur.fill)
	s.dc.Fill()
}

// StrokeLine strokes in device pixels, so width and dash are scaled by zoom.
func (s *Surface) StrokeLine(x1, y1, x2, y2 float64) {
	s.dc.SetColor(s.cur.stroke)
	s.dc.SetLineWidth(s.cur.strokeWidth * s.zoom)
	dash := make([]float64, len(s.cur.dash))
	for i, d := range s.cur.dash {
		dash[i] = d * s.zoom
	}
	s.dc.SetDash(dash...)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

// MeasureText returns user-space width. Faces are rasterized at device size.
func (s *Surface) MeasureText(text string) float64 {
	w, _ := s.dc.MeasureString(text)
	return w / s.zoom
}

func (s *Surface) FillText(text string, x, y, maxWidth float64) {
	if text == "" || maxWidth <= 0 {
		return
	}
	s.dc.SetColor(s.cur.fill)
	s.dc.DrawStringAnchored(text, x, y, 0, 0.5)
}

func (s *Surface) BeginPath() {
	s.dc.ClearPath()
}

func (s *Surface) MoveTo(x, y float64) {
	s.dc.MoveTo(x, y)
}

func (s *Surface) LineTo(x, y float64) {
	s.dc.LineTo(x, y)
}

func (s *Surface) Arc(cx, cy, r, a0, a1 float64) {
	s.dc.DrawArc(cx, cy, r, a0, a1)
}

func (s *Surface) ClosePath() {
	s.dc.ClosePath()
}

func (s *Surface) FillPath() error {
	s.dc.SetColor(s.cur.fill)
	s.dc.Fill()
	return nil
}
