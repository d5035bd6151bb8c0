package grid

import (
	"math"
	"sort"

	"gridpane/internal/surface"
	"gridpane/internal/table"
)

// Cell addresses one table cell.
type Cell struct {
	Row, Col int
}

// CellAt returns the cell containing (x, y) in the table's own untransformed
// content space. ok is false only when the point lies outside
// [0, TotalWidth] × [0, TotalHeight]. A point on a boundary belongs to the
// column (row) whose cumulative size first reaches it.
//
// CellAt walks the size arrays; callers issuing many queries should build an
// Axis once and use Axis.Index.
func CellAt(t *table.Table, x, y float64) (Cell, bool) {
	col, ok := walk(t.ColumnWidths, x)
	if !ok {
		return Cell{}, false
	}
	row, ok := walk(t.RowHeights, y)
	if !ok {
		return Cell{}, false
	}
	return Cell{Row: row, Col: col}, true
}

func walk(sizes []float64, v float64) (int, bool) {
	if len(sizes) == 0 || math.IsNaN(v) || v < 0 {
		return 0, false
	}
	total := 0.0
	for _, s := range sizes {
		total += s
	}
	if v > total {
		return 0, false
	}
	acc := 0.0
	for i, s := range sizes {
		acc += s
		if acc >= v {
			return i, true
		}
	}
	// Slop: inside the box but past the last running sum.
	return len(sizes) - 1, true
}

// CellBounds returns the content-space rectangle of cell (row, col).
func CellBounds(t *table.Table, row, col int) surface.Rect {
	x := 0.0
	for c := 0; c < col; c++ {
		x += t.ColumnWidths[c]
	}
	y := 0.0
	for r := 0; r < row; r++ {
		y += t.RowHeights[r]
	}
	return surface.Rect{X: x, Y: y, W: t.ColumnWidths[col], H: t.RowHeights[row]}
}

// Axis caches prefix sums of row heights or column widths.
type Axis struct {
	offsets []float64 // len(sizes)+1, offsets[0] == 0
}

// NewAxis builds the prefix sums of sizes.
func NewAxis(sizes []float64) Axis {
	offsets := make([]float64, len(sizes)+1)
	for i, s := range sizes {
		offsets[i+1] = offsets[i] + s
	}
	return Axis{offsets: offsets}
}

// Len is the number of entries.
func (a Axis) Len() int { return len(a.offsets) - 1 }

// Total is the sum of all sizes.
func (a Axis) Total() float64 { return a.offsets[len(a.offsets)-1] }

// Offset is the start of entry i. i is clamped to [0, Len()].
func (a Axis) Offset(i int) float64 {
	return a.offsets[clampIndex(i, 0, a.Len())]
}

// Size is the size of entry i.
func (a Axis) Size(i int) float64 {
	return a.Offset(i+1) - a.Offset(i)
}

// Extent is the summed size of entries [from, to).
func (a Axis) Extent(from, to int) float64 {
	return a.Offset(to) - a.Offset(from)
}

// Index is CellAt's lookup on one axis, in O(log n).
func (a Axis) Index(v float64) (int, bool) {
	n := a.Len()
	if n == 0 || math.IsNaN(v) || v < 0 || v > a.Total() {
		return 0, false
	}
	i := sort.Search(n, func(i int) bool { return a.offsets[i+1] >= v })
	if i == n {
		i = n - 1
	}
	return i, true
}

// Span returns the entries [first, last) whose extent overlaps the open
// interval (lo, hi).
func (a Axis) Span(lo, hi float64) (first, last int) {
	n := a.Len()
	first = sort.Search(n, func(i int) bool { return a.offsets[i+1] > lo })
	last = sort.Search(n, func(i int) bool { return a.offsets[i] >= hi })
	if last < first {
		last = first
	}
	return first, last
}

// ViewportToContent maps a point in viewport pixels to content space by
// inverting the pane transforms: the frozen-row strip ignores the scroll
// offset and the frozen-column strip ignores the horizontal crop. ok is false
// outside [0, Width] × [0, Height].
func ViewportToContent(t *table.Table, vx, vy float64) (x, y float64, ok bool) {
	if vx < 0 || vy < 0 || vx > t.Width || vy > t.Height {
		return 0, 0, false
	}
	fz := FrozenLayout(t)

	y = vy + t.CropY
	if !fz.HasRows || vy >= fz.RowVisibleHeight {
		y += t.ScrollOffsetY
	}
	x = vx
	if !fz.HasColumns || vx >= fz.ColumnWidth {
		x += t.CropX
	}
	return x, y, true
}

// CellAtViewport resolves a pointer position in viewport pixels to a cell.
func CellAtViewport(t *table.Table, vx, vy float64) (Cell, bool) {
	x, y, ok := ViewportToContent(t, vx, vy)
	if !ok {
		return Cell{}, false
	}
	return CellAt(t, x, y)
}

func clampIndex(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
