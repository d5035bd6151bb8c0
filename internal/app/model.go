// Package app is the interactive table previewer: a bubbletea program that
// renders the table through the grid renderer onto a character-cell surface
// and edits it from the keyboard and mouse.
package app

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xuri/excelize/v2"

	"gridpane/internal/config"
	"gridpane/internal/export"
	"gridpane/internal/grid"
	"gridpane/internal/log"
	"gridpane/internal/surface/term"
	"gridpane/internal/table"
)

// Options configures a previewer.
type Options struct {
	Config config.Config
	Table  *table.Table
	Theme  grid.Theme
	// Source names the file the table came from, for the status bar.
	Source string

	// Changes, when set, signals that the source changed on disk; Reload
	// produces the fresh table.
	Changes <-chan struct{}
	Reload  func() (*table.Table, error)

	// Clipboard defaults to the system clipboard.
	Clipboard Clipboard
}

// Model is the bubbletea model of the previewer.
type Model struct {
	width  int
	height int

	tbl    *table.Table
	sel    grid.Cell
	theme  grid.Theme
	cfg    config.Config
	keys   KeyMap
	source string

	mode          Mode
	help          bool
	helpScroll    int
	editText      []rune
	editCursorPos int
	filename      string
	fileOp        FileOperation
	confirmAction ConfirmAction

	errorMessage   string
	successMessage string

	undoStack []Action
	redoStack []Action
	dirty     bool

	dragging   bool
	dragOffset float64

	changes   <-chan struct{}
	reload    func() (*table.Table, error)
	clipboard Clipboard
}

type sourceChangedMsg struct{}

type reloadedMsg struct {
	tbl *table.Table
	err error
}

// New creates a previewer for opts.Table, or for an empty table seeded from
// the config when none is given.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Defaults()
	}
	tbl := opts.Table
	if tbl == nil {
		tbl = cfg.Table.NewTable()
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = systemClipboard{}
	}
	return Model{
		tbl:       tbl,
		theme:     opts.Theme,
		cfg:       cfg,
		keys:      DefaultKeyMap(),
		source:    opts.Source,
		changes:   opts.Changes,
		reload:    opts.Reload,
		clipboard: clip,
	}
}

// Table returns the table being previewed.
func (m Model) Table() *table.Table { return m.tbl }

// Selected returns the selected cell.
func (m Model) Selected() grid.Cell { return m.sel }

// Mode returns the current input mode.
func (m Model) Mode() Mode { return m.mode }

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return sourceChangedMsg{}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	if m.reload == nil {
		return nil
	}
	reload := m.reload
	return func() tea.Msg {
		tbl, err := reload()
		return reloadedMsg{tbl: tbl, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.fitViewport()
		return m, nil

	case sourceChangedMsg:
		log.Debug(log.CatWatch, "Source changed", "source", m.source)
		return m, tea.Batch(m.reloadCmd(), m.waitForChange())

	case reloadedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatWatch, "Reload failed", msg.err, "source", m.source)
			m.errorMessage = fmt.Sprintf("Reload failed: %s", msg.err)
			return m, nil
		}
		m.reloadTable(msg.tbl)
		m.successMessage = "Reloaded"
		m.errorMessage = ""
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			return m.updateHelp(msg)
		}
		switch m.mode {
		case ModeEditing:
			return m.updateEditing(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

// reloadTable swaps in a freshly loaded table and keeps the viewport position
// where the new shape allows it.
func (m *Model) reloadTable(fresh *table.Table) {
	before := m.tbl.Clone()
	cropX, cropY, scroll := m.tbl.CropX, m.tbl.CropY, m.tbl.ScrollOffsetY

	m.tbl = fresh
	m.fitViewport()
	m.tbl.SetCrop(cropX, cropY)
	m.tbl.SetScroll(scroll)
	m.clampSelection()
	m.recordAction(ActionReload, before)
	m.dirty = false
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	m.successMessage = ""

	switch {
	case key.Matches(msg, k.Quit):
		if !m.cfg.Confirmations {
			return m, tea.Quit
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
	case key.Matches(msg, k.Help):
		m.help = true
		m.helpScroll = 0

	case key.Matches(msg, k.Up):
		m.handleSelectionMove(-1, 0)
	case key.Matches(msg, k.Down):
		m.handleSelectionMove(1, 0)
	case key.Matches(msg, k.Left):
		m.handleSelectionMove(0, -1)
	case key.Matches(msg, k.Right):
		m.handleSelectionMove(0, 1)

	case key.Matches(msg, k.ScrollDown):
		m.scrollRows(1)
	case key.Matches(msg, k.ScrollUp):
		m.scrollRows(-1)
	case key.Matches(msg, k.CropDown):
		m.cropRows(1)
	case key.Matches(msg, k.CropUp):
		m.cropRows(-1)
	case key.Matches(msg, k.CropRight):
		m.cropColumns(1)
	case key.Matches(msg, k.CropLeft):
		m.cropColumns(-1)

	case key.Matches(msg, k.FreezeRow):
		m.freeze(1, 0)
	case key.Matches(msg, k.UnfreezeRow):
		m.freeze(-1, 0)
	case key.Matches(msg, k.FreezeColumn):
		m.freeze(0, 1)
	case key.Matches(msg, k.UnfreezeColumn):
		m.freeze(0, -1)

	case key.Matches(msg, k.InsertRow):
		m.report(m.apply(ActionInsertRow, func(t *table.Table) error { return t.InsertRow(m.sel.Row + 1) }))
		if m.errorMessage == "" {
			m.handleSelectionMove(1, 0)
		}
	case key.Matches(msg, k.InsertColumn):
		m.report(m.apply(ActionInsertColumn, func(t *table.Table) error { return t.InsertColumn(m.sel.Col + 1) }))
		if m.errorMessage == "" {
			m.handleSelectionMove(0, 1)
		}
	case key.Matches(msg, k.DeleteRow):
		if !m.cfg.Confirmations {
			m.deleteRow()
			break
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDeleteRow
	case key.Matches(msg, k.DeleteColumn):
		if !m.cfg.Confirmations {
			m.deleteColumn()
			break
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmDeleteColumn
	case key.Matches(msg, k.Widen):
		m.resizeColumn(columnResizeStep)
	case key.Matches(msg, k.Narrow):
		m.resizeColumn(-columnResizeStep)
	case key.Matches(msg, k.ToggleHeader):
		m.report(m.apply(ActionToggleHeader, func(t *table.Table) error {
			t.HeaderRow = !t.HeaderRow
			return nil
		}))

	case key.Matches(msg, k.Edit):
		m.mode = ModeEditing
		m.editText = []rune(m.tbl.Cell(m.sel.Row, m.sel.Col))
		m.editCursorPos = len(m.editText)
	case key.Matches(msg, k.Yank):
		m.yankCell()
	case key.Matches(msg, k.Paste):
		m.pasteBlock()

	case key.Matches(msg, k.ToggleTheme):
		if m.theme == grid.ThemeDark {
			m.theme = grid.ThemeLight
		} else {
			m.theme = grid.ThemeDark
		}
	case key.Matches(msg, k.ExportPNG):
		m.mode = ModeFileInput
		m.fileOp = FileOpSavePNG
		m.filename = m.defaultExportName()
		m.errorMessage = ""
	case key.Matches(msg, k.ExportText):
		m.mode = ModeFileInput
		m.fileOp = FileOpSaveVisualTXT
		m.filename = m.defaultExportName()
		m.errorMessage = ""
	case key.Matches(msg, k.Undo):
		if !m.undo() {
			m.successMessage = "Nothing to undo"
		}
	case key.Matches(msg, k.Redo):
		if !m.redo() {
			m.successMessage = "Nothing to redo"
		}

	case msg.Type == tea.KeyEscape:
		m.errorMessage = ""
		m.dragging = false
	}
	return m, nil
}

func (m *Model) report(err error) {
	if err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.errorMessage = ""
}

func (m *Model) freeze(dRows, dCols int) {
	rows := max(0, min(m.tbl.FrozenRows+dRows, m.tbl.Rows))
	cols := max(0, min(m.tbl.FrozenColumns+dCols, m.tbl.Columns))
	if rows == m.tbl.FrozenRows && cols == m.tbl.FrozenColumns {
		return
	}
	m.report(m.apply(ActionFreeze, func(t *table.Table) error {
		t.FrozenRows, t.FrozenColumns = rows, cols
		return nil
	}))
}

func (m *Model) deleteRow() {
	m.report(m.apply(ActionDeleteRow, func(t *table.Table) error { return t.DeleteRow(m.sel.Row) }))
}

func (m *Model) deleteColumn() {
	m.report(m.apply(ActionDeleteColumn, func(t *table.Table) error { return t.DeleteColumn(m.sel.Col) }))
}

func (m *Model) resizeColumn(delta float64) {
	width := math.Max(minColumnWidth, m.tbl.ColumnWidths[m.sel.Col]+delta)
	if width == m.tbl.ColumnWidths[m.sel.Col] {
		return
	}
	m.report(m.apply(ActionResizeColumn, func(t *table.Table) error { return t.ResizeColumn(m.sel.Col, width) }))
}

func (m *Model) yankCell() {
	text := m.tbl.Cell(m.sel.Row, m.sel.Col)
	if err := m.clipboard.WriteAll(text); err != nil {
		m.errorMessage = fmt.Sprintf("Copy failed: %s", err)
		return
	}
	m.successMessage = fmt.Sprintf("Copied %s", cellName(m.sel))
}

// pasteBlock writes a tab/newline separated block starting at the selected
// cell. Cells falling outside the table are dropped.
func (m *Model) pasteBlock() {
	raw, err := m.clipboard.ReadAll()
	if err != nil {
		m.errorMessage = fmt.Sprintf("Paste failed: %s", err)
		return
	}
	block := parseBlock(cleanClipboardText(raw))
	if len(block) == 0 {
		m.successMessage = "Clipboard is empty"
		return
	}
	origin := m.sel
	m.report(m.apply(ActionPaste, func(t *table.Table) error {
		for r, row := range block {
			for c, text := range row {
				if origin.Row+r >= t.Rows || origin.Col+c >= t.Columns {
					continue
				}
				if err := t.SetCell(origin.Row+r, origin.Col+c, text); err != nil {
					return err
				}
			}
		}
		return nil
	}))
	if m.errorMessage == "" {
		m.successMessage = fmt.Sprintf("Pasted %d row(s) at %s", len(block), cellName(origin))
	}
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.editText = nil
		m.editCursorPos = 0
	case tea.KeyEnter, tea.KeyCtrlS:
		text := string(m.editText)
		sel := m.sel
		if text != m.tbl.Cell(sel.Row, sel.Col) {
			m.report(m.apply(ActionEditCell, func(t *table.Table) error { return t.SetCell(sel.Row, sel.Col, text) }))
		}
		m.mode = ModeNormal
		m.editText = nil
		m.editCursorPos = 0
	case tea.KeyLeft:
		if m.editCursorPos > 0 {
			m.editCursorPos--
		}
	case tea.KeyRight:
		if m.editCursorPos < len(m.editText) {
			m.editCursorPos++
		}
	case tea.KeyHome, tea.KeyCtrlA:
		m.editCursorPos = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.editCursorPos = len(m.editText)
	case tea.KeyBackspace:
		if m.editCursorPos > 0 {
			m.editText = append(m.editText[:m.editCursorPos-1], m.editText[m.editCursorPos:]...)
			m.editCursorPos--
		}
	case tea.KeyDelete:
		if m.editCursorPos < len(m.editText) {
			m.editText = append(m.editText[:m.editCursorPos], m.editText[m.editCursorPos+1:]...)
		}
	case tea.KeySpace:
		m.insertRunes([]rune{' '})
	case tea.KeyRunes:
		m.insertRunes(msg.Runes)
	}
	return m, nil
}

func (m *Model) insertRunes(rs []rune) {
	text := make([]rune, 0, len(m.editText)+len(rs))
	text = append(text, m.editText[:m.editCursorPos]...)
	text = append(text, rs...)
	text = append(text, m.editText[m.editCursorPos:]...)
	m.editText = text
	m.editCursorPos += len(rs)
}

func (m Model) defaultExportName() string {
	if m.source != "" {
		base := filepath.Base(m.source)
		return base[:len(base)-len(filepath.Ext(base))]
	}
	return defaultPNGName
}

func (m Model) exportOptions() export.Options {
	backend := m.cfg.Backend
	if m.fileOp == FileOpSaveVisualTXT {
		backend = config.BackendText
	} else if backend == config.BackendText || backend == "" {
		backend = config.BackendGG
	}
	return export.Options{Backend: backend, Theme: m.theme, Zoom: m.cfg.Zoom}
}

func (m Model) exportPath() (string, error) {
	opts := m.exportOptions()
	return m.cfg.GetSavePath(export.WithExtension(m.filename, export.Extension(opts.Backend)))
}

func (m Model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
	case tea.KeyEnter:
		if m.filename == "" {
			m.errorMessage = "Filename required"
			return m, nil
		}
		path, err := m.exportPath()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		if _, err := os.Stat(path); err == nil && m.cfg.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			return m, nil
		}
		m.writeExport(path)
	case tea.KeyBackspace:
		if len(m.filename) > 0 {
			rs := []rune(m.filename)
			m.filename = string(rs[:len(rs)-1])
		}
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

func (m *Model) writeExport(path string) {
	if err := export.File(path, m.tbl, m.exportOptions()); err != nil {
		m.mode = ModeFileInput
		m.errorMessage = err.Error()
		return
	}
	absPath, _ := filepath.Abs(path)
	m.successMessage = fmt.Sprintf("Exported to %s", absPath)
	m.errorMessage = ""
	m.mode = ModeNormal
	m.filename = ""
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDeleteRow:
			m.deleteRow()
		case ConfirmDeleteColumn:
			m.deleteColumn()
		case ConfirmOverwriteFile:
			path, err := m.exportPath()
			if err != nil {
				m.errorMessage = err.Error()
				return m, nil
			}
			m.writeExport(path)
		}
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.mode = ModeFileInput
			return m, nil
		}
		m.mode = ModeNormal
	}
	return m, nil
}

// handleMouse maps terminal cells to viewport pixels at the cell centers.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	vx := (float64(msg.X) + 0.5) * term.CellWidth
	vy := (float64(msg.Y) + 0.5) * term.CellHeight
	t := m.tbl

	switch {
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.scrollRows(1)
	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.scrollRows(-1)
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		sb := grid.ComputeScrollbar(t, grid.FontSize(t))
		center := sb.X + sb.Width/2
		if sb.HitThumb(center, vy) && math.Abs(vx-center) <= term.CellWidth {
			m.dragging = true
			m.dragOffset = vy - sb.ThumbY
			return
		}
		if cell, ok := grid.CellAtViewport(t, vx, vy); ok {
			m.sel = cell
		}
	case msg.Action == tea.MouseActionMotion && m.dragging:
		m.scrollToThumb(vy - m.dragOffset)
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
}

// cellName is the spreadsheet name of a cell, e.g. B3.
func cellName(c grid.Cell) string {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", c.Row+1, c.Col+1)
	}
	return name
}
