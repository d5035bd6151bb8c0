package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) helpLines() []string {
	lines := []string{
		"gridpane Help",
		"=============",
		"",
	}
	for _, group := range m.keys.helpGroups() {
		lines = append(lines, group.title+":", strings.Repeat("-", len(group.title)+1))
		for _, b := range group.bindings {
			h := b.Help()
			lines = append(lines, fmt.Sprintf("  %-16s %s", h.Key, h.Desc))
		}
		lines = append(lines, "")
	}
	lines = append(lines,
		"Edit Mode:",
		"----------",
		"  ←/→              Move the text cursor",
		"  Enter/Ctrl+S     Save the cell",
		"  Esc              Cancel",
		"",
		"Mouse:",
		"------",
		"  Click            Select a cell",
		"  Wheel            Scroll by one row",
		"  Drag thumb       Scroll",
	)
	return lines
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		visibleHeight := max(1, m.height-1)
		maxScroll := max(0, len(m.helpLines())-visibleHeight)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m Model) helpView() string {
	helpLines := m.helpLines()

	visibleHeight := max(1, m.height-1)
	startLine := min(m.helpScroll, max(0, len(helpLines)-visibleHeight))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}
