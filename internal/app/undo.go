package app

import (
	"gridpane/internal/log"
	"gridpane/internal/table"
)

// maxHistory bounds the undo stack; the oldest snapshot is dropped first.
const maxHistory = 100

// Action is one undoable edit. Data is the table after the edit and Inverse
// the table before it; both are private snapshots.
type Action struct {
	Type    ActionType
	Data    *table.Table
	Inverse *table.Table
}

// apply runs edit against the table and records it for undo. A failing edit
// leaves the table and the history untouched.
func (m *Model) apply(actionType ActionType, edit func(t *table.Table) error) error {
	before := m.tbl.Clone()
	if err := edit(m.tbl); err != nil {
		m.tbl = before
		return err
	}
	m.recordAction(actionType, before)
	m.fitViewport()
	m.clampSelection()
	return nil
}

func (m *Model) recordAction(actionType ActionType, before *table.Table) {
	action := Action{
		Type:    actionType,
		Data:    m.tbl.Clone(),
		Inverse: before,
	}
	m.undoStack = append(m.undoStack, action)
	if len(m.undoStack) > maxHistory {
		m.undoStack = m.undoStack[len(m.undoStack)-maxHistory:]
	}
	m.redoStack = m.redoStack[:0]
	m.dirty = true
	log.Debug(log.CatUI, "Recorded action", "action", actionType, "depth", len(m.undoStack))
}

func (m *Model) undo() bool {
	if len(m.undoStack) == 0 {
		return false
	}
	lastIndex := len(m.undoStack) - 1
	action := m.undoStack[lastIndex]
	m.undoStack = m.undoStack[:lastIndex]

	m.tbl = action.Inverse.Clone()
	m.fitViewport()
	m.clampSelection()

	m.redoStack = append(m.redoStack, action)
	return true
}

func (m *Model) redo() bool {
	if len(m.redoStack) == 0 {
		return false
	}
	lastIndex := len(m.redoStack) - 1
	action := m.redoStack[lastIndex]
	m.redoStack = m.redoStack[:lastIndex]

	m.tbl = action.Data.Clone()
	m.fitViewport()
	m.clampSelection()

	m.undoStack = append(m.undoStack, action)
	return true
}
