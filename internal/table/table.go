// Package table holds the table element: a rows×columns text grid with
// per-row and per-column sizes, pinned leading rows/columns, and a scrolled,
// cropped viewport onto its content.
package table

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

const (
	DefaultColumnWidth = 100.0
	DefaultRowHeight   = 36.0
	DefaultRows        = 3
	DefaultColumns     = 3

	// Bounds used by external column auto-sizers: sampled text width plus
	// AutoColumnPadding, clamped to [MinAutoColumnWidth, MaxAutoColumnWidth].
	MinAutoColumnWidth = 60.0
	MaxAutoColumnWidth = 320.0
	AutoColumnPadding  = 24.0

	DefaultStrokeColor     = "#1e1e1e"
	DefaultBackgroundColor = "transparent"
	DefaultFontFamily      = "sans"

	// ScrollEpsilon absorbs floating point slop when deciding whether content
	// overflows the viewport.
	ScrollEpsilon = 0.5
)

// Table is a spreadsheet-like element. Renderers read it and never mutate it.
type Table struct {
	ID      string
	Rows    int
	Columns int

	// Cells may be sparse; missing entries read as "".
	Cells [][]string

	ColumnWidths []float64
	RowHeights   []float64

	HeaderRow     bool
	FrozenRows    int
	FrozenColumns int

	ScrollOffsetY float64
	CropX         float64
	CropY         float64
	Width         float64
	Height        float64

	FontSize        *float64
	FontFamily      string
	StrokeColor     string
	BackgroundColor string
}

// Option configures a table built by New or FromCells.
type Option func(*Table)

// WithCellSize sets uniform column width and row height.
func WithCellSize(width, height float64) Option {
	return func(t *Table) {
		for i := range t.ColumnWidths {
			t.ColumnWidths[i] = width
		}
		for i := range t.RowHeights {
			t.RowHeights[i] = height
		}
	}
}

// WithViewport caps the visible viewport. Zero leaves an axis at content size.
func WithViewport(width, height float64) Option {
	return func(t *Table) {
		if width > 0 {
			t.Width = width
		}
		if height > 0 {
			t.Height = height
		}
	}
}

// WithHeaderRow marks row 0 as a header.
func WithHeaderRow(on bool) Option {
	return func(t *Table) { t.HeaderRow = on }
}

// WithFrozen pins leading rows and columns.
func WithFrozen(rows, columns int) Option {
	return func(t *Table) {
		t.FrozenRows = rows
		t.FrozenColumns = columns
	}
}

// WithFontSize sets an explicit font size.
func WithFontSize(size float64) Option {
	return func(t *Table) { t.FontSize = &size }
}

// WithFontFamily sets the font family name.
func WithFontFamily(family string) Option {
	return func(t *Table) { t.FontFamily = family }
}

// WithColors sets text/line and background colors.
func WithColors(stroke, background string) Option {
	return func(t *Table) {
		if stroke != "" {
			t.StrokeColor = stroke
		}
		if background != "" {
			t.BackgroundColor = background
		}
	}
}

// New creates a rows×columns table with default sizing.
// Panics if rows or columns is below 1.
func New(rows, columns int, opts ...Option) *Table {
	if rows < 1 || columns < 1 {
		panic(fmt.Sprintf("table: dimensions must be >= 1, got %dx%d", rows, columns))
	}

	t := &Table{
		ID:              uuid.NewString(),
		Rows:            rows,
		Columns:         columns,
		Cells:           make([][]string, rows),
		ColumnWidths:    make([]float64, columns),
		RowHeights:      make([]float64, rows),
		FontFamily:      DefaultFontFamily,
		StrokeColor:     DefaultStrokeColor,
		BackgroundColor: DefaultBackgroundColor,
	}
	for r := range t.Cells {
		t.Cells[r] = make([]string, columns)
	}
	for i := range t.ColumnWidths {
		t.ColumnWidths[i] = DefaultColumnWidth
	}
	for i := range t.RowHeights {
		t.RowHeights[i] = DefaultRowHeight
	}

	return t.apply(opts)
}

// FromCells builds a table from imported cell text. Rows may be ragged; the
// column count is the longest row. widths supplies column widths where
// present and positive, DefaultColumnWidth otherwise.
func FromCells(cells [][]string, widths []float64, opts ...Option) (*Table, error) {
	columns := 0
	for _, row := range cells {
		columns = max(columns, len(row))
	}
	if len(cells) == 0 || columns == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidTable)
	}

	t := New(len(cells), columns)
	for r, row := range cells {
		copy(t.Cells[r], row)
	}
	t.Width, t.Height = 0, 0
	t = t.apply(append(opts, func(t *Table) {
		for c := range t.ColumnWidths {
			if c < len(widths) && widths[c] > 0 {
				t.ColumnWidths[c] = widths[c]
			}
		}
	}))
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) apply(opts []Option) *Table {
	for _, opt := range opts {
		opt(t)
	}
	total := t.TotalWidth()
	if t.Width <= 0 || t.Width > total {
		t.Width = total
	}
	total = t.TotalHeight()
	if t.Height <= 0 || t.Height > total {
		t.Height = total
	}
	return t
}

// Cell returns the text at (row, col), or "" when the matrix is sparse there.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Cells) {
		return ""
	}
	r := t.Cells[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// TotalWidth is the sum of all column widths.
func (t *Table) TotalWidth() float64 {
	return sum(t.ColumnWidths)
}

// TotalHeight is the sum of all row heights.
func (t *Table) TotalHeight() float64 {
	return sum(t.RowHeights)
}

// IsScrollable reports whether content below the crop overflows the viewport.
func (t *Table) IsScrollable() bool {
	return t.TotalHeight()-t.CropY > t.Height+ScrollEpsilon
}

// MaxScroll is the largest meaningful ScrollOffsetY.
func (t *Table) MaxScroll() float64 {
	return math.Max(0, t.TotalHeight()-t.CropY-t.Height)
}

// MinRowHeight is the smallest row height, or 0 for a table with no rows.
func (t *Table) MinRowHeight() float64 {
	if len(t.RowHeights) == 0 {
		return 0
	}
	m := t.RowHeights[0]
	for _, h := range t.RowHeights[1:] {
		m = math.Min(m, h)
	}
	return m
}

// Validate reports construction invariant violations. Renderers assume a
// valid table and do not call this.
func (t *Table) Validate() error {
	if t.Rows < 1 || t.Columns < 1 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidTable, t.Rows, t.Columns)
	}
	if len(t.ColumnWidths) != t.Columns {
		return fmt.Errorf("%w: %d column widths for %d columns", ErrInvalidTable, len(t.ColumnWidths), t.Columns)
	}
	if len(t.RowHeights) != t.Rows {
		return fmt.Errorf("%w: %d row heights for %d rows", ErrInvalidTable, len(t.RowHeights), t.Rows)
	}
	for i, w := range t.ColumnWidths {
		if !(w > 0) {
			return fmt.Errorf("%w: column %d width %v", ErrInvalidTable, i, w)
		}
	}
	for i, h := range t.RowHeights {
		if !(h > 0) {
			return fmt.Errorf("%w: row %d height %v", ErrInvalidTable, i, h)
		}
	}
	if t.FrozenRows < 0 || t.FrozenColumns < 0 {
		return fmt.Errorf("%w: negative frozen count", ErrInvalidTable)
	}
	if t.ScrollOffsetY < 0 || t.CropX < 0 || t.CropY < 0 {
		return fmt.Errorf("%w: negative scroll or crop", ErrInvalidTable)
	}
	if !(t.Width > 0) || !(t.Height > 0) {
		return fmt.Errorf("%w: viewport %vx%v", ErrInvalidTable, t.Width, t.Height)
	}
	return nil
}

// Clone returns a deep copy. The ID is kept.
func (t *Table) Clone() *Table {
	c := *t
	c.Cells = make([][]string, len(t.Cells))
	for i, row := range t.Cells {
		c.Cells[i] = append([]string(nil), row...)
	}
	c.ColumnWidths = append([]float64(nil), t.ColumnWidths...)
	c.RowHeights = append([]float64(nil), t.RowHeights...)
	if t.FontSize != nil {
		fs := *t.FontSize
		c.FontSize = &fs
	}
	return &c
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
