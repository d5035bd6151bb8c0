// Package grid renders table elements with frozen rows and columns onto a
// surface.Surface.
//
// A render is four ordered passes over the same cell painter, each with its
// own clip and translation: the scrolled base grid, the pinned header rows,
// the pinned leading columns, and the corner where both meet. Later passes
// paint over earlier ones, so pinned content stays on top of scrolled content.
// A vertical scrollbar is drawn last when the content overflows.
package grid

import (
	"gridpane/internal/log"
	"gridpane/internal/surface"
	"gridpane/internal/table"
)

// Viewport carries the render-time context that does not live on the table.
type Viewport struct {
	Theme Theme
	// Zoom is informational for the grid; surfaces apply device scaling.
	Zoom float64
}

// Render paints t onto s. The current transform of s must map the table's
// top-left corner to (0, 0). Render does not mutate t and leaves s in the
// state it found it.
func Render(s surface.Surface, t *table.Table, vp Viewport) {
	st := StyleFor(t, vp.Theme)
	g := newGeometry(t)
	ps := panes(t, g)

	for _, p := range ps {
		renderPane(s, t, g, st, p)
	}

	sb := ComputeScrollbar(t, st.FontSize)
	if sb.Visible {
		drawScrollbar(s, st, sb)
	}

	if log.Enabled(log.LevelDebug) {
		log.Debug(log.CatRender, "Rendered table",
			"id", t.ID,
			"panes", len(ps),
			"scroll", t.ScrollOffsetY,
			"scrollbar", sb.Visible)
	}
}

// RenderPane runs a single pass. Render calls it for each entry of Panes.
func RenderPane(s surface.Surface, t *table.Table, p Pane, vp Viewport) {
	renderPane(s, t, newGeometry(t), StyleFor(t, vp.Theme), p)
}

func renderPane(s surface.Surface, t *table.Table, g geometry, st Style, p Pane) {
	defer surface.Scope(s)()

	s.ClipRect(p.Clip.X, p.Clip.Y, p.Clip.W, p.Clip.H)
	s.Translate(p.OffsetX, p.OffsetY)

	vis := p.Visible()
	paintRange(s, t, g, st, p.Range, &vis)
}

func drawScrollbar(s surface.Surface, st Style, sb Scrollbar) {
	defer surface.Scope(s)()

	s.SetFill(st.Scrollbar)
	surface.FillRoundRect(s, sb.X, sb.ThumbY, sb.Width, sb.ThumbHeight, sb.Width/2)
}
