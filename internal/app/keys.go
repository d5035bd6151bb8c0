package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the previewer in normal mode.
type KeyMap struct {
	// Selection
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Viewport
	ScrollDown key.Binding
	ScrollUp   key.Binding
	CropDown   key.Binding
	CropUp     key.Binding
	CropLeft   key.Binding
	CropRight  key.Binding

	// Frozen panes
	FreezeRow      key.Binding
	UnfreezeRow    key.Binding
	FreezeColumn   key.Binding
	UnfreezeColumn key.Binding

	// Structure
	InsertRow    key.Binding
	InsertColumn key.Binding
	DeleteRow    key.Binding
	DeleteColumn key.Binding
	Widen        key.Binding
	Narrow       key.Binding
	ToggleHeader key.Binding

	// Cells
	Edit  key.Binding
	Paste key.Binding
	Yank  key.Binding

	// General
	ToggleTheme key.Binding
	ExportPNG   key.Binding
	ExportText  key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "select cell above"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "select cell below"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "select cell left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "select cell right"),
		),

		ScrollDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "scroll down one row"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "scroll up one row"),
		),
		CropDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "crop one more row from the top"),
		),
		CropUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "crop one row less from the top"),
		),
		CropLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "crop one column less from the left"),
		),
		CropRight: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "crop one more column from the left"),
		),

		FreezeRow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "freeze one more row"),
		),
		UnfreezeRow: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "freeze one row less"),
		),
		FreezeColumn: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "freeze one more column"),
		),
		UnfreezeColumn: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "freeze one column less"),
		),

		InsertRow: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "insert row below"),
		),
		InsertColumn: key.NewBinding(
			key.WithKeys("O"),
			key.WithHelp("O", "insert column right"),
		),
		DeleteRow: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete row"),
		),
		DeleteColumn: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete column"),
		),
		Widen: key.NewBinding(
			key.WithKeys(">"),
			key.WithHelp(">", "widen column"),
		),
		Narrow: key.NewBinding(
			key.WithKeys("<"),
			key.WithHelp("<", "narrow column"),
		),
		ToggleHeader: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "toggle header row"),
		),

		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit cell"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paste into cells"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy cell text"),
		),

		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle light/dark"),
		),
		ExportPNG: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "export PNG"),
		),
		ExportText: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export text rendering"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("U"),
			key.WithHelp("U", "redo"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpGroups orders the bindings for the help screen.
func (k KeyMap) helpGroups() []struct {
	title    string
	bindings []key.Binding
} {
	return []struct {
		title    string
		bindings []key.Binding
	}{
		{"Selection", []key.Binding{k.Up, k.Down, k.Left, k.Right}},
		{"Viewport", []key.Binding{k.ScrollDown, k.ScrollUp, k.CropDown, k.CropUp, k.CropLeft, k.CropRight}},
		{"Frozen panes", []key.Binding{k.FreezeRow, k.UnfreezeRow, k.FreezeColumn, k.UnfreezeColumn}},
		{"Structure", []key.Binding{k.InsertRow, k.InsertColumn, k.DeleteRow, k.DeleteColumn, k.Widen, k.Narrow, k.ToggleHeader}},
		{"Cells", []key.Binding{k.Edit, k.Paste, k.Yank}},
		{"General", []key.Binding{k.ToggleTheme, k.ExportPNG, k.ExportText, k.Undo, k.Redo, k.Help, k.Quit}},
	}
}
