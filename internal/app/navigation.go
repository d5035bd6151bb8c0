package app

import (
	"math"

	"gridpane/internal/grid"
	"gridpane/internal/surface/term"
	"gridpane/internal/table"
)

func (m *Model) handleSelectionMove(dRow, dCol int) {
	m.sel.Row += dRow
	m.sel.Col += dCol
	m.clampSelection()
	m.ensureSelectionVisible()
}

func (m *Model) clampSelection() {
	m.sel.Row = max(0, min(m.sel.Row, m.tbl.Rows-1))
	m.sel.Col = max(0, min(m.sel.Col, m.tbl.Columns-1))
}

// fitViewport sizes the table viewport to the terminal, leaving one line for
// the status bar.
func (m *Model) fitViewport() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	t := m.tbl
	maxW := float64(m.width) * term.CellWidth
	maxH := float64(max(1, m.height-1)) * term.CellHeight
	t.Width = math.Min(maxW, t.TotalWidth())
	t.Height = math.Min(maxH, t.TotalHeight())
	t.SetCrop(t.CropX, t.CropY)
}

// ensureSelectionVisible scrolls and crops just enough to bring the selected
// cell out from under the pinned strips and inside the viewport.
func (m *Model) ensureSelectionVisible() {
	t := m.tbl
	fz := grid.FrozenLayout(t)
	rows := grid.NewAxis(t.RowHeights)
	cols := grid.NewAxis(t.ColumnWidths)

	if m.sel.Row >= fz.Rows {
		top := rows.Offset(m.sel.Row) - t.CropY
		bottom := top + rows.Size(m.sel.Row)
		viewTop := 0.0
		if fz.HasRows {
			viewTop = fz.RowVisibleHeight
		}
		scroll := t.ScrollOffsetY
		switch {
		case top-scroll < viewTop:
			scroll = top - viewTop
		case bottom-scroll > t.Height:
			scroll = math.Min(bottom-t.Height, top-viewTop)
		}
		t.SetScroll(scroll)
	}

	if m.sel.Col >= fz.Columns {
		left := cols.Offset(m.sel.Col)
		right := left + cols.Size(m.sel.Col)
		cropX := t.CropX
		switch {
		case left-cropX < fz.ColumnWidth:
			cropX = left - fz.ColumnWidth
		case right-cropX > t.Width:
			cropX = math.Min(right-t.Width, left-fz.ColumnWidth)
		}
		t.SetCrop(math.Max(0, cropX), t.CropY)
	}
}

// stepBoundary returns the next cell boundary of a after v in direction dir.
func stepBoundary(a grid.Axis, v float64, dir int) float64 {
	if dir > 0 {
		for i := 0; i <= a.Len(); i++ {
			if a.Offset(i) > v+table.ScrollEpsilon {
				return a.Offset(i)
			}
		}
		return a.Total()
	}
	for i := a.Len(); i >= 0; i-- {
		if a.Offset(i) < v-table.ScrollEpsilon {
			return a.Offset(i)
		}
	}
	return 0
}

// scrollRows moves the scroll offset to the next row boundary.
func (m *Model) scrollRows(dir int) {
	t := m.tbl
	rows := grid.NewAxis(t.RowHeights)
	top := t.CropY + t.ScrollOffsetY
	t.SetScroll(stepBoundary(rows, top, dir) - t.CropY)
}

// cropRows moves the top crop edge to the next row boundary.
func (m *Model) cropRows(dir int) {
	t := m.tbl
	t.SetCrop(t.CropX, stepBoundary(grid.NewAxis(t.RowHeights), t.CropY, dir))
	m.fitViewport()
}

// cropColumns moves the left crop edge to the next column boundary.
func (m *Model) cropColumns(dir int) {
	t := m.tbl
	t.SetCrop(stepBoundary(grid.NewAxis(t.ColumnWidths), t.CropX, dir), t.CropY)
}

// scrollToThumb drags the scrollbar thumb so its top sits at viewport y.
func (m *Model) scrollToThumb(thumbY float64) {
	t := m.tbl
	sb := grid.ComputeScrollbar(t, grid.FontSize(t))
	if !sb.Visible {
		return
	}
	t.SetScroll(grid.ScrollForThumb(t, sb, thumbY))
}
