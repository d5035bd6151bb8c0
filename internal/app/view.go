package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gridpane/internal/grid"
	"gridpane/internal/surface"
	"gridpane/internal/surface/term"
)

var (
	statusStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e03131")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2f9e44"))
	modeStyle    = lipgloss.NewStyle().Bold(true)
)

var selectionTint = [2]string{
	grid.ThemeLight: "#a5d8ff",
	grid.ThemeDark:  "#1c4a75",
}

func (m Model) View() string {
	if m.help {
		return m.helpView()
	}

	var result strings.Builder
	result.WriteString(m.renderTable())
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

// renderTable draws the table onto a character grid the size of its viewport
// and tints the selected cell.
func (m Model) renderTable() string {
	s := term.New(m.tbl.Width, m.tbl.Height)
	grid.Render(s, m.tbl, grid.Viewport{Theme: m.theme, Zoom: 1})
	if r, ok := grid.CellViewportRect(m.tbl, m.sel.Row, m.sel.Col); ok {
		s.Tint(r.X, r.Y, r.W, r.H, surface.MustColor(selectionTint[m.theme]))
	}
	return s.String()
}

func (m Model) statusLine() string {
	var status string
	switch m.mode {
	case ModeEditing:
		cursor := m.editCursorPos
		runes := append([]rune(nil), m.editText...)
		var display string
		if cursor >= len(runes) {
			display = string(runes) + "█"
		} else {
			runes[cursor] = '█'
			display = string(runes)
		}
		status = fmt.Sprintf("%s | %s | %s | Enter=save, Esc=cancel",
			modeStyle.Render("Mode: EDIT"), cellName(m.sel), display)
	case ModeFileInput:
		op := "Export PNG"
		if m.fileOp == FileOpSaveVisualTXT {
			op = "Export TXT"
		}
		status = fmt.Sprintf("%s | %s filename: %s█ | Enter=confirm, Esc=cancel",
			modeStyle.Render("Mode: FILE"), op, m.filename)
		if m.errorMessage != "" {
			status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return status
	case ModeConfirm:
		status = fmt.Sprintf("%s | %s", modeStyle.Render("Mode: CONFIRM"), m.confirmMessage())
		return status
	default:
		t := m.tbl
		status = fmt.Sprintf("%s | %s | %dx%d | frozen %d/%d | scroll %.0f/%.0f",
			modeStyle.Render("Mode: "+m.mode.String()),
			cellName(m.sel), t.Rows, t.Columns,
			t.FrozenRows, t.FrozenColumns,
			t.ScrollOffsetY, t.MaxScroll())
		if m.source != "" {
			status += " | " + m.source
		}
	}

	switch {
	case m.errorMessage != "":
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		status += " | " + successStyle.Render(m.successMessage)
	default:
		status += statusStyle.Render(" | ? for help | q to quit")
	}
	return status
}

func (m Model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmDeleteRow:
		return fmt.Sprintf("Delete row %d? (y/n)", m.sel.Row+1)
	case ConfirmDeleteColumn:
		return fmt.Sprintf("Delete column %s? (y/n)", strings.TrimRight(cellName(m.sel), "0123456789"))
	case ConfirmQuit:
		if m.dirty {
			return "Quit? Unexported changes will be lost. (y/n)"
		}
		return "Quit gridpane? (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.filename)
	}
	return "(y/n)"
}
