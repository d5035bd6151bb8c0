// Package term rasterizes onto a grid of terminal character cells. Each
// cell covers CellWidth×CellHeight user-space pixels; fills set cell
// backgrounds, lines become box-drawing runes, and text is laid out one rune
// per cell (two for wide runes).
package term

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"gridpane/internal/log"
	"gridpane/internal/surface"
)

// Character cell dimensions (pixels per character).
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

const (
	runeHorizontal = '─'
	runeVertical   = '│'
	runeCross      = '┼'
)

type cell struct {
	r    rune // 0 marks the trailing half of a wide rune
	fg   color.Color
	bg   color.Color
	bold bool
}

type state struct {
	tx, ty float64
	clip   surface.Rect
	fill   color.Color
	stroke color.Color
	font   surface.Font
}

// Surface is a surface.Surface over a Cols×Rows character grid. It has no
// path support, so rounded shapes degrade to rectangles.
type Surface struct {
	cols, rows int
	cells      [][]cell

	cur   state
	stack []state
}

var _ surface.Surface = (*Surface)(nil)

// New creates a grid large enough to cover width×height pixels.
func New(width, height float64) *Surface {
	cols := max(1, int(math.Ceil(width/CellWidth)))
	rows := max(1, int(math.Ceil(height/CellHeight)))

	cells := make([][]cell, rows)
	for r := range cells {
		cells[r] = make([]cell, cols)
		for c := range cells[r] {
			cells[r][c].r = ' '
		}
	}
	return &Surface{
		cols:  cols,
		rows:  rows,
		cells: cells,
		cur: state{
			clip:   surface.Rect{W: float64(cols) * CellWidth, H: float64(rows) * CellHeight},
			fill:   color.Black,
			stroke: color.Black,
		},
	}
}

// Size returns the grid dimensions in cells.
func (s *Surface) Size() (cols, rows int) {
	return s.cols, s.rows
}

func (s *Surface) Save() {
	s.stack = append(s.stack, s.cur)
}

func (s *Surface) Restore() {
	n := len(s.stack)
	if n == 0 {
		log.Warn(log.CatSurface, "unbalanced restore", "backend", "term")
		return
	}
	s.cur = s.stack[n-1]
	s.stack = s.stack[:n-1]
}

func (s *Surface) Translate(dx, dy float64) {
	s.cur.tx += dx
	s.cur.ty += dy
}

func (s *Surface) ClipRect(x, y, w, h float64) {
	s.cur.clip = s.cur.clip.Intersect(surface.Rect{X: x + s.cur.tx, Y: y + s.cur.ty, W: w, H: h})
}

func (s *Surface) SetFill(c color.Color) { s.cur.fill = c }

func (s *Surface) SetStroke(c color.Color, _ float64, _ []float64) { s.cur.stroke = c }

func (s *Surface) SetFont(f surface.Font) { s.cur.font = f }

// visible reports whether the center of cell (col, row) is inside the clip.
func (s *Surface) visible(col, row int) bool {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return false
	}
	cx := (float64(col) + 0.5) * CellWidth
	cy := (float64(row) + 0.5) * CellHeight
	return s.cur.clip.Contains(cx, cy)
}

func (s *Surface) FillRect(x, y, w, h float64) {
	if surface.IsTransparent(s.cur.fill) {
		return
	}
	r := surface.Rect{X: x + s.cur.tx, Y: y + s.cur.ty, W: w, H: h}
	c0, c1 := span(r.X, r.X+r.W, CellWidth)
	r0, r1 := span(r.Y, r.Y+r.H, CellHeight)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			if s.visible(col, row) {
				s.release(col, row)
				s.cells[row][col] = cell{r: ' ', bg: s.cur.fill}
			}
		}
	}
}

// Tint sets the background of the cells covering the rect and keeps their
// runes. The previewer marks its selection with it after a render.
func (s *Surface) Tint(x, y, w, h float64, c color.Color) {
	r := surface.Rect{X: x + s.cur.tx, Y: y + s.cur.ty, W: w, H: h}
	c0, c1 := span(r.X, r.X+r.W, CellWidth)
	r0, r1 := span(r.Y, r.Y+r.H, CellHeight)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			if s.visible(col, row) {
				s.cells[row][col].bg = c
			}
		}
	}
}

// span returns the cells whose centers lie in [lo, hi).
func span(lo, hi, size float64) (int, int) {
	return int(math.Ceil(lo/size - 0.5)), int(math.Ceil(hi/size - 0.5))
}

func (s *Surface) StrokeLine(x1, y1, x2, y2 float64) {
	ax, ay := x1+s.cur.tx, y1+s.cur.ty
	bx, by := x2+s.cur.tx, y2+s.cur.ty

	switch {
	case ay == by:
		row := min(int(math.Floor(ay/CellHeight)), s.rows-1)
		c0, c1 := span(math.Min(ax, bx), math.Max(ax, bx), CellWidth)
		for col := c0; col < c1; col++ {
			if s.visible(col, row) && s.cur.clip.Contains((float64(col)+0.5)*CellWidth, ay) {
				s.line(col, row, runeHorizontal)
			}
		}
	case ax == bx:
		col := min(int(math.Floor(ax/CellWidth)), s.cols-1)
		r0, r1 := span(math.Min(ay, by), math.Max(ay, by), CellHeight)
		for row := r0; row < r1; row++ {
			if s.visible(col, row) && s.cur.clip.Contains(ax, (float64(row)+0.5)*CellHeight) {
				s.line(col, row, runeVertical)
			}
		}
	default:
		log.Debug(log.CatSurface, "diagonal line skipped", "backend", "term")
	}
}

func (s *Surface) line(col, row int, r rune) {
	s.release(col, row)
	c := &s.cells[row][col]
	switch {
	case c.r == runeCross:
	case (c.r == runeHorizontal && r == runeVertical) || (c.r == runeVertical && r == runeHorizontal):
		c.r = runeCross
	default:
		c.r = r
	}
	c.fg = s.cur.stroke
	c.bold = false
}

// MeasureText returns the width of text in pixels at one cell per column.
func (s *Surface) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text)) * CellWidth
}

func (s *Surface) FillText(text string, x, y, maxWidth float64) {
	dx, dy := x+s.cur.tx, y+s.cur.ty
	row := int(math.Floor(dy / CellHeight))
	col := int(math.Ceil(dx/CellWidth - 0.5))
	limit := col + int(math.Floor(maxWidth/CellWidth))

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > limit {
			return
		}
		if s.visible(col, row) && (w == 1 || s.visible(col+1, row)) {
			s.release(col, row)
			if w == 2 {
				s.release(col+1, row)
			}
			s.put(col, row, r)
			if w == 2 {
				s.put(col+1, row, 0)
			}
		}
		col += w
	}
}

// release blanks the other half of a wide rune occupying (col, row) so that
// overwriting one half never leaves the other orphaned.
func (s *Surface) release(col, row int) {
	cells := s.cells[row]
	if cells[col].r == 0 && col > 0 {
		cells[col-1].r = ' '
	}
	if col+1 < len(cells) && cells[col+1].r == 0 {
		cells[col+1].r = ' '
	}
}

func (s *Surface) put(col, row int, r rune) {
	c := &s.cells[row][col]
	c.r = r
	c.fg = s.cur.fill
	c.bold = s.cur.font.Bold
}

// Plain returns the grid as text without styling.
func (s *Surface) Plain() string {
	var b strings.Builder
	for i, row := range s.cells {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if c.r != 0 {
				b.WriteRune(c.r)
			}
		}
	}
	return b.String()
}

// String renders the grid with lipgloss styles, one run per style change.
func (s *Surface) String() string {
	lines := make([]string, len(s.cells))
	for i, row := range s.cells {
		var b strings.Builder
		var run strings.Builder
		var runStyle cell
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styleFor(runStyle).Render(run.String()))
			run.Reset()
		}
		for j, c := range row {
			if c.r == 0 {
				continue
			}
			if j == 0 || !sameStyle(c, runStyle) {
				flush()
				runStyle = c
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}

func sameStyle(a, b cell) bool {
	return colorKey(a.fg) == colorKey(b.fg) && colorKey(a.bg) == colorKey(b.bg) && a.bold == b.bold
}

func colorKey(c color.Color) string {
	if c == nil {
		return ""
	}
	return surface.Hex(c)
}

func styleFor(c cell) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(c.bold)
	if c.fg != nil {
		st = st.Foreground(lipgloss.Color(surface.Hex(c.fg)))
	}
	if c.bg != nil {
		st = st.Background(lipgloss.Color(surface.Hex(c.bg)))
	}
	return st
}
