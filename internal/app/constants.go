package app

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeFileInput
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeEditing:
		return "EDIT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmDeleteRow ConfirmAction = iota
	ConfirmDeleteColumn
	ConfirmQuit
	ConfirmOverwriteFile
)

type ActionType int

const (
	ActionEditCell ActionType = iota
	ActionPaste
	ActionInsertRow
	ActionDeleteRow
	ActionInsertColumn
	ActionDeleteColumn
	ActionResizeColumn
	ActionToggleHeader
	ActionFreeze
	ActionReload
)

var actionNames = [...]string{
	ActionEditCell:     "edit cell",
	ActionPaste:        "paste",
	ActionInsertRow:    "insert row",
	ActionDeleteRow:    "delete row",
	ActionInsertColumn: "insert column",
	ActionDeleteColumn: "delete column",
	ActionResizeColumn: "resize column",
	ActionToggleHeader: "toggle header",
	ActionFreeze:       "freeze",
	ActionReload:       "reload",
}

func (a ActionType) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

const (
	defaultPNGName = "table"
	// Column width step for < and >, in pixels.
	columnResizeStep = 10.0
	minColumnWidth   = 16.0
)
