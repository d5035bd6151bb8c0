package surface

import (
	"math"

	"gridpane/internal/log"
)

// FillRoundRect fills a rounded rectangle with the current fill color. When
// the backend has no path support, or filling the path fails, it falls back
// to a plain rectangle so the pass still completes.
func FillRoundRect(s Surface, x, y, w, h, r float64) {
	if w <= 0 || h <= 0 {
		return
	}
	p, ok := s.(PathSurface)
	if !ok {
		s.FillRect(x, y, w, h)
		return
	}

	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	p.BeginPath()
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.Arc(x+w-r, y+r, r, -math.Pi/2, 0)
	p.LineTo(x+w, y+h-r)
	p.Arc(x+w-r, y+h-r, r, 0, math.Pi/2)
	p.LineTo(x+r, y+h)
	p.Arc(x+r, y+h-r, r, math.Pi/2, math.Pi)
	p.LineTo(x, y+r)
	p.Arc(x+r, y+r, r, math.Pi, 3*math.Pi/2)
	p.ClosePath()

	if err := p.FillPath(); err != nil {
		log.Warn(log.CatSurface, "rounded rect degraded to rect", "error", err)
		s.FillRect(x, y, w, h)
	}
}
