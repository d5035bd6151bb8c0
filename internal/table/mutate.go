package table

import (
	"fmt"
	"math"
)

// SetCell replaces the text at (row, col), growing a sparse row if needed.
func (t *Table) SetCell(row, col int, text string) error {
	if err := t.checkCell(row, col); err != nil {
		return err
	}
	t.ensureCells()
	t.Cells[row][col] = text
	return nil
}

// InsertRow inserts an empty row before index at (at == Rows appends). The
// new row copies the height of its upper neighbour, or DefaultRowHeight.
func (t *Table) InsertRow(at int) error {
	if at < 0 || at > t.Rows {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, at)
	}
	t.ensureCells()
	height := DefaultRowHeight
	if at > 0 {
		height = t.RowHeights[at-1]
	} else if t.Rows > 0 {
		height = t.RowHeights[0]
	}

	t.editRows(func() {
		t.Cells = insertAt(t.Cells, at, make([]string, t.Columns))
		t.RowHeights = insertAt(t.RowHeights, at, height)
		t.Rows++
	})
	return nil
}

// DeleteRow removes the row at index at. Frozen counts are left as stored.
func (t *Table) DeleteRow(at int) error {
	if at < 0 || at >= t.Rows {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, at)
	}
	if t.Rows == 1 {
		return ErrLastRow
	}
	t.ensureCells()

	t.editRows(func() {
		t.Cells = deleteAt(t.Cells, at)
		t.RowHeights = deleteAt(t.RowHeights, at)
		t.Rows--
	})
	return nil
}

// InsertColumn inserts an empty column before index at (at == Columns appends).
func (t *Table) InsertColumn(at int) error {
	if at < 0 || at > t.Columns {
		return fmt.Errorf("%w: column %d", ErrOutOfRange, at)
	}
	t.ensureCells()
	width := DefaultColumnWidth
	if at > 0 {
		width = t.ColumnWidths[at-1]
	} else if t.Columns > 0 {
		width = t.ColumnWidths[0]
	}

	t.editColumns(func() {
		for r := range t.Cells {
			t.Cells[r] = insertAt(t.Cells[r], at, "")
		}
		t.ColumnWidths = insertAt(t.ColumnWidths, at, width)
		t.Columns++
	})
	return nil
}

// DeleteColumn removes the column at index at.
func (t *Table) DeleteColumn(at int) error {
	if at < 0 || at >= t.Columns {
		return fmt.Errorf("%w: column %d", ErrOutOfRange, at)
	}
	if t.Columns == 1 {
		return ErrLastColumn
	}
	t.ensureCells()

	t.editColumns(func() {
		for r := range t.Cells {
			t.Cells[r] = deleteAt(t.Cells[r], at)
		}
		t.ColumnWidths = deleteAt(t.ColumnWidths, at)
		t.Columns--
	})
	return nil
}

// ResizeColumn sets the width of column col.
func (t *Table) ResizeColumn(col int, width float64) error {
	if col < 0 || col >= t.Columns {
		return fmt.Errorf("%w: column %d", ErrOutOfRange, col)
	}
	if !(width > 0) {
		return fmt.Errorf("%w: column width %v", ErrInvalidTable, width)
	}
	t.editColumns(func() { t.ColumnWidths[col] = width })
	return nil
}

// ResizeRow sets the height of row row.
func (t *Table) ResizeRow(row int, height float64) error {
	if row < 0 || row >= t.Rows {
		return fmt.Errorf("%w: row %d", ErrOutOfRange, row)
	}
	if !(height > 0) {
		return fmt.Errorf("%w: row height %v", ErrInvalidTable, height)
	}
	t.editRows(func() { t.RowHeights[row] = height })
	return nil
}

// SetScroll sets ScrollOffsetY clamped to [0, MaxScroll()].
func (t *Table) SetScroll(y float64) {
	t.ScrollOffsetY = clamp(y, 0, t.MaxScroll())
}

// SetCrop moves the viewport window origin. Each axis is clamped to keep at
// least part of the content visible.
func (t *Table) SetCrop(x, y float64) {
	t.CropX = clamp(x, 0, math.Max(0, t.TotalWidth()-t.Width))
	t.CropY = clamp(y, 0, math.Max(0, t.TotalHeight()-1))
	t.SetScroll(t.ScrollOffsetY)
}

// editRows applies a vertical structural change and resyncs Height, CropY and
// the scroll offset. A viewport that reached the bottom edge keeps tracking it.
func (t *Table) editRows(edit func()) {
	tracking := t.Height+ScrollEpsilon >= t.TotalHeight()-t.CropY
	edit()
	total := t.TotalHeight()
	t.CropY = clamp(t.CropY, 0, math.Max(0, total-t.MinRowHeight()))
	visible := total - t.CropY
	if tracking || t.Height > visible {
		t.Height = visible
	}
	t.SetScroll(t.ScrollOffsetY)
}

// editColumns is editRows for the horizontal axis.
func (t *Table) editColumns(edit func()) {
	tracking := t.Width+ScrollEpsilon >= t.TotalWidth()-t.CropX
	edit()
	total := t.TotalWidth()
	minWidth := t.ColumnWidths[0]
	for _, w := range t.ColumnWidths {
		minWidth = math.Min(minWidth, w)
	}
	t.CropX = clamp(t.CropX, 0, math.Max(0, total-minWidth))
	visible := total - t.CropX
	if tracking || t.Width > visible {
		t.Width = visible
	}
}

// ensureCells densifies the matrix so structural edits stay index-aligned.
func (t *Table) ensureCells() {
	for len(t.Cells) < t.Rows {
		t.Cells = append(t.Cells, nil)
	}
	for r := range t.Cells {
		if len(t.Cells[r]) < t.Columns {
			row := make([]string, t.Columns)
			copy(row, t.Cells[r])
			t.Cells[r] = row
		}
	}
}

func (t *Table) checkCell(row, col int) error {
	if row < 0 || row >= t.Rows || col < 0 || col >= t.Columns {
		return fmt.Errorf("%w: cell (%d,%d) in %dx%d", ErrOutOfRange, row, col, t.Rows, t.Columns)
	}
	return nil
}

func insertAt[T any](s []T, at int, v T) []T {
	s = append(s, v)
	copy(s[at+1:], s[at:])
	s[at] = v
	return s
}

func deleteAt[T any](s []T, at int) []T {
	return append(s[:at], s[at+1:]...)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
