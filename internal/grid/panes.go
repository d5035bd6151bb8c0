package grid

import (
	"math"

	"gridpane/internal/surface"
	"gridpane/internal/table"
)

// PaneKind identifies one of the four render passes.
type PaneKind int

const (
	PaneBase PaneKind = iota
	PaneFrozenRows
	PaneFrozenColumns
	PaneFrozenCorner
)

var paneNames = [...]string{
	PaneBase:          "base",
	PaneFrozenRows:    "frozen-rows",
	PaneFrozenColumns: "frozen-columns",
	PaneFrozenCorner:  "frozen-corner",
}

func (k PaneKind) String() string {
	if int(k) < len(paneNames) {
		return paneNames[k]
	}
	return "unknown"
}

// Frozen is the derived geometry of the pinned strips.
type Frozen struct {
	Rows    int // min(FrozenRows, Rows)
	Columns int // min(FrozenColumns, Columns)

	RowHeight   float64
	ColumnWidth float64
	// RowVisibleHeight is the part of the frozen-row strip left after CropY.
	RowVisibleHeight float64

	HasRows    bool
	HasColumns bool
}

// FrozenLayout clamps the frozen counts and measures the pinned strips.
func FrozenLayout(t *table.Table) Frozen {
	return frozenLayout(t, newGeometry(t))
}

func frozenLayout(t *table.Table, g geometry) Frozen {
	fz := Frozen{
		Rows:    max(0, min(t.FrozenRows, t.Rows)),
		Columns: max(0, min(t.FrozenColumns, t.Columns)),
	}
	fz.RowHeight = g.rows.Extent(0, fz.Rows)
	fz.ColumnWidth = g.cols.Extent(0, fz.Columns)
	fz.RowVisibleHeight = math.Max(0, fz.RowHeight-t.CropY)
	fz.HasRows = fz.Rows > 0 && fz.RowVisibleHeight > 0
	fz.HasColumns = fz.Columns > 0
	return fz
}

// Pane is one render pass: clip in viewport space, then translate by
// (OffsetX, OffsetY), then paint Range.
type Pane struct {
	Kind    PaneKind
	Clip    surface.Rect
	OffsetX float64
	OffsetY float64
	Range   Range
}

// Visible is the pane's clip expressed in content coordinates.
func (p Pane) Visible() surface.Rect {
	return p.Clip.Translate(-p.OffsetX, -p.OffsetY)
}

// Panes returns the passes for t in paint order. The base pane is always
// present; the corner, when present, is last.
func Panes(t *table.Table) []Pane {
	return panes(t, newGeometry(t))
}

func panes(t *table.Table, g geometry) []Pane {
	fz := frozenLayout(t, g)
	scrollY := -t.CropY - t.ScrollOffsetY

	out := make([]Pane, 0, 4)
	out = append(out, Pane{
		Kind:    PaneBase,
		Clip:    surface.Rect{W: t.Width, H: t.Height},
		OffsetX: -t.CropX,
		OffsetY: scrollY,
		Range:   Range{RowEnd: t.Rows, ColEnd: t.Columns},
	})
	if fz.HasRows {
		out = append(out, Pane{
			Kind:    PaneFrozenRows,
			Clip:    surface.Rect{W: t.Width, H: fz.RowVisibleHeight},
			OffsetX: -t.CropX,
			OffsetY: -t.CropY,
			Range:   Range{RowEnd: fz.Rows, ColEnd: t.Columns},
		})
	}
	if fz.HasColumns {
		out = append(out, Pane{
			Kind:    PaneFrozenColumns,
			Clip:    surface.Rect{W: fz.ColumnWidth, H: t.Height},
			OffsetY: scrollY,
			Range:   Range{RowEnd: t.Rows, ColEnd: fz.Columns},
		})
	}
	if fz.HasRows && fz.HasColumns {
		out = append(out, Pane{
			Kind:    PaneFrozenCorner,
			Clip:    surface.Rect{W: fz.ColumnWidth, H: fz.RowVisibleHeight},
			OffsetY: -t.CropY,
			Range:   Range{RowEnd: fz.Rows, ColEnd: fz.Columns},
		})
	}
	return out
}

func (k PaneKind) pinsRows() bool    { return k == PaneFrozenRows || k == PaneFrozenCorner }
func (k PaneKind) pinsColumns() bool { return k == PaneFrozenColumns || k == PaneFrozenCorner }

// CellViewportRect returns the visible part of cell (row, col) in viewport
// pixels, as drawn by the topmost pane that paints it. ok is false when the
// cell is scrolled or cropped out of view, or covered by a pinned strip.
func CellViewportRect(t *table.Table, row, col int) (surface.Rect, bool) {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Columns {
		return surface.Rect{}, false
	}
	g := newGeometry(t)
	fz := frozenLayout(t, g)
	ps := panes(t, g)
	bounds := surface.Rect{X: g.cols.Offset(col), Y: g.rows.Offset(row), W: g.cols.Size(col), H: g.rows.Size(row)}

	for i := len(ps) - 1; i >= 0; i-- {
		p := ps[i]
		if !p.Range.Contains(row, col) {
			continue
		}
		r := bounds.Translate(p.OffsetX, p.OffsetY).Intersect(p.Clip)
		if fz.HasRows && !p.Kind.pinsRows() {
			r = r.Intersect(surface.Rect{Y: fz.RowVisibleHeight, W: t.Width, H: t.Height})
		}
		if fz.HasColumns && !p.Kind.pinsColumns() {
			r = r.Intersect(surface.Rect{X: fz.ColumnWidth, W: t.Width, H: t.Height})
		}
		return r, !r.Empty()
	}
	return surface.Rect{}, false
}
