// Package xlsximport seeds tables from spreadsheet sheets.
package xlsximport

import (
	"errors"
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"gridpane/internal/log"
	"gridpane/internal/table"
)

// ErrNoSheet indicates the requested sheet does not exist.
var ErrNoSheet = errors.New("sheet not found")

// ErrEmptySheet indicates the sheet has no cell values.
var ErrEmptySheet = errors.New("sheet has no cells")

// ImportError represents a failure importing one sheet of a workbook.
type ImportError struct {
	Path  string
	Sheet string
	Err   error
}

func (e *ImportError) Error() string {
	if e.Sheet == "" {
		return fmt.Sprintf("import %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("import %s (sheet %q): %v", e.Path, e.Sheet, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Spreadsheet units. Column widths are stored in characters of the default
// font (7px wide plus 5px of cell margin at 96 DPI); row heights in points.
const (
	pixelsPerChar     = 7.0
	columnMarginPx    = 5.0
	pixelsPerPoint    = 96.0 / 72.0
	defaultRowPoints  = 15.0
	defaultColumnChar = 9.140625
)

// ColumnWidthPixels converts an Excel column width to pixels.
func ColumnWidthPixels(chars float64) float64 {
	return math.Round(chars*pixelsPerChar + columnMarginPx)
}

// RowHeightPixels converts an Excel row height to pixels.
func RowHeightPixels(points float64) float64 {
	return math.Round(points * pixelsPerPoint)
}

// Options selects what to import.
type Options struct {
	// Sheet names the sheet; empty means the workbook's active sheet.
	Sheet string
	// HeaderRow marks the first row as a header.
	HeaderRow bool
}

// Result is one imported sheet.
type Result struct {
	Sheet         string
	Cells         [][]string
	ColumnWidths  []float64
	RowHeights    []float64
	FrozenRows    int
	FrozenColumns int
	HeaderRow     bool
}

// Open reads one sheet of the workbook at path.
func Open(path string, opts Options) (*Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ImportError{Path: path, Sheet: opts.Sheet, Err: err}
	}
	defer f.Close()

	res, err := Read(f, opts)
	if err != nil {
		return nil, &ImportError{Path: path, Sheet: opts.Sheet, Err: err}
	}
	log.Info(log.CatImport, "Imported sheet",
		"path", path,
		"sheet", res.Sheet,
		"rows", len(res.Cells),
		"columns", len(res.ColumnWidths),
		"frozenRows", res.FrozenRows,
		"frozenColumns", res.FrozenColumns)
	return res, nil
}

// Sheets lists the sheet names of the workbook at path.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &ImportError{Path: path, Err: err}
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Read extracts one sheet from an open workbook.
func Read(f *excelize.File, opts Options) (*Result, error) {
	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	if len(rows) == 0 || columns == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}

	res := &Result{
		Sheet:        sheet,
		Cells:        rows,
		ColumnWidths: make([]float64, columns),
		RowHeights:   make([]float64, len(rows)),
		HeaderRow:    opts.HeaderRow,
	}

	for c := range res.ColumnWidths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", c+1, err)
		}
		chars, err := f.GetColWidth(sheet, name)
		if err != nil || chars <= 0 {
			log.Debug(log.CatImport, "default column width", "column", name, "error", err)
			chars = defaultColumnChar
		}
		res.ColumnWidths[c] = ColumnWidthPixels(chars)
	}
	for r := range res.RowHeights {
		points, err := f.GetRowHeight(sheet, r+1)
		if err != nil || points <= 0 {
			points = defaultRowPoints
		}
		res.RowHeights[r] = RowHeightPixels(points)
	}

	panes, err := f.GetPanes(sheet)
	if err != nil {
		log.Warn(log.CatImport, "could not read panes", "sheet", sheet, "error", err)
	} else if panes.Freeze {
		res.FrozenRows = max(0, panes.YSplit)
		res.FrozenColumns = max(0, panes.XSplit)
	}
	return res, nil
}

// Table builds a table from the imported sheet. opts apply after the
// imported sizes, header flag and frozen panes.
func (r *Result) Table(opts ...table.Option) (*table.Table, error) {
	heights := func(t *table.Table) {
		for i := range t.RowHeights {
			if i < len(r.RowHeights) && r.RowHeights[i] > 0 {
				t.RowHeights[i] = r.RowHeights[i]
			}
		}
	}
	all := append([]table.Option{
		heights,
		table.WithHeaderRow(r.HeaderRow),
		table.WithFrozen(r.FrozenRows, r.FrozenColumns),
	}, opts...)
	return table.FromCells(r.Cells, r.ColumnWidths, all...)
}
