package grid

import (
	"gridpane/internal/surface"
	"gridpane/internal/table"
)

// Range selects rows [RowStart, RowEnd) and columns [ColStart, ColEnd).
type Range struct {
	RowStart, RowEnd int
	ColStart, ColEnd int
}

// Empty reports whether the range selects no cells.
func (r Range) Empty() bool {
	return r.RowEnd <= r.RowStart || r.ColEnd <= r.ColStart
}

// Contains reports whether (row, col) is inside the range.
func (r Range) Contains(row, col int) bool {
	return row >= r.RowStart && row < r.RowEnd && col >= r.ColStart && col < r.ColEnd
}

// geometry is the prefix-sum view of a table shared by every pass of one render.
type geometry struct {
	rows, cols Axis
}

func newGeometry(t *table.Table) geometry {
	return geometry{rows: NewAxis(t.RowHeights), cols: NewAxis(t.ColumnWidths)}
}

// PaintRange paints the rectangular cell range rng of t onto s. The current
// transform must map the table content origin to (0, 0); the range is placed
// at its own content offset. vis, when non-nil, is the visible window in
// content coordinates: rows and columns entirely outside it are skipped,
// which changes cost but never the visible output.
//
// PaintRange leaves the surface state as it found it.
func PaintRange(s surface.Surface, t *table.Table, st Style, rng Range, vis *surface.Rect) {
	paintRange(s, t, newGeometry(t), st, rng, vis)
}

func paintRange(s surface.Surface, t *table.Table, g geometry, st Style, rng Range, vis *surface.Rect) {
	if rng.Empty() {
		return
	}
	x0, x1 := g.cols.Offset(rng.ColStart), g.cols.Offset(rng.ColEnd)
	y0, y1 := g.rows.Offset(rng.RowStart), g.rows.Offset(rng.RowEnd)
	if x1 <= x0 || y1 <= y0 {
		return
	}

	defer surface.Scope(s)()

	s.SetFill(st.Background)
	s.FillRect(x0, y0, x1-x0, y1-y0)

	if t.HeaderRow && rng.RowStart == 0 {
		s.SetFill(st.Header)
		s.FillRect(x0, y0, x1-x0, g.rows.Size(0))
	}

	rFirst, rLast := rng.RowStart, rng.RowEnd
	cFirst, cLast := rng.ColStart, rng.ColEnd
	if vis != nil {
		a, b := g.rows.Span(vis.Y, vis.Y+vis.H)
		rFirst, rLast = max(rFirst, a), min(rLast, b)
		a, b = g.cols.Span(vis.X, vis.X+vis.W)
		cFirst, cLast = max(cFirst, a), min(cLast, b)
	}
	if rFirst >= rLast || cFirst >= cLast {
		return
	}

	// Internal boundaries only; the element frame is drawn elsewhere.
	s.SetStroke(st.Line, st.LineWidth, nil)
	lx0, lx1 := g.cols.Offset(cFirst), g.cols.Offset(cLast)
	ly0, ly1 := g.rows.Offset(rFirst), g.rows.Offset(rLast)
	for r := max(rng.RowStart+1, rFirst); r <= min(rng.RowEnd-1, rLast); r++ {
		y := g.rows.Offset(r)
		s.StrokeLine(lx0, y, lx1, y)
	}
	for c := max(rng.ColStart+1, cFirst); c <= min(rng.ColEnd-1, cLast); c++ {
		x := g.cols.Offset(c)
		s.StrokeLine(x, ly0, x, ly1)
	}

	s.SetFill(st.Text)
	header := t.HeaderRow && rFirst == 0
	if header {
		s.SetFont(st.HeaderFont)
	} else {
		s.SetFont(st.Font)
	}
	for r := rFirst; r < rLast; r++ {
		if header && r == 1 {
			s.SetFont(st.Font)
		}
		for c := cFirst; c < cLast; c++ {
			text := t.Cell(r, c)
			if text == "" {
				continue
			}
			cell := surface.Rect{
				X: g.cols.Offset(c), Y: g.rows.Offset(r),
				W: g.cols.Size(c), H: g.rows.Size(r),
			}
			paintCellText(s, st, cell, text)
		}
	}
}

func paintCellText(s surface.Surface, st Style, cell surface.Rect, text string) {
	inner := cell.W - 2*st.Padding
	if inner <= 0 {
		return
	}
	text = Truncate(s, text, inner)

	s.Save()
	s.ClipRect(cell.X, cell.Y, cell.W, cell.H)
	s.FillText(text, cell.X+st.Padding, cell.Y+cell.H/2, inner)
	s.Restore()
}
