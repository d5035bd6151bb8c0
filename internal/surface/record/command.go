// Package record provides a Surface that captures drawing operations as typed
// commands instead of rasterizing them.
//
// Recordings are inspectable (tests assert on pass order and clip regions),
// comparable (two renders of the same input produce equal command slices),
// and replayable onto any other surface with Playback.
package record

import (
	"fmt"
	"image/color"

	"gridpane/internal/surface"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave      CommandType = iota // Save current state
	CmdRestore                      // Restore previous state
	CmdTranslate                    // Move the origin
	CmdClipRect                     // Intersect the clip with a rectangle

	// Style commands
	CmdSetFill   // Set fill color
	CmdSetStroke // Set stroke color, width and dash
	CmdSetFont   // Set font

	// Drawing commands
	CmdFillRect   // Fill a rectangle
	CmdStrokeLine // Stroke a line segment
	CmdFillText   // Draw text

	// Path commands
	CmdBeginPath
	CmdMoveTo
	CmdLineTo
	CmdArc
	CmdClosePath
	CmdFillPath
)

var commandTypeNames = [...]string{
	CmdSave:       "Save",
	CmdRestore:    "Restore",
	CmdTranslate:  "Translate",
	CmdClipRect:   "ClipRect",
	CmdSetFill:    "SetFill",
	CmdSetStroke:  "SetStroke",
	CmdSetFont:    "SetFont",
	CmdFillRect:   "FillRect",
	CmdStrokeLine: "StrokeLine",
	CmdFillText:   "FillText",
	CmdBeginPath:  "BeginPath",
	CmdMoveTo:     "MoveTo",
	CmdLineTo:     "LineTo",
	CmdArc:        "Arc",
	CmdClosePath:  "ClosePath",
	CmdFillPath:   "FillPath",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) && commandTypeNames[c] != "" {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	Type() CommandType
}

// SaveCmd saves the surface state.
type SaveCmd struct{}

// RestoreCmd restores the surface state.
type RestoreCmd struct{}

// TranslateCmd moves the origin.
type TranslateCmd struct{ DX, DY float64 }

// ClipRectCmd intersects the clip with Rect.
type ClipRectCmd struct{ Rect surface.Rect }

// SetFillCmd sets the fill color.
type SetFillCmd struct{ Color color.NRGBA }

// SetStrokeCmd sets the stroke style.
type SetStrokeCmd struct {
	Color color.NRGBA
	Width float64
	Dash  []float64
}

// SetFontCmd sets the font.
type SetFontCmd struct{ Font surface.Font }

// FillRectCmd fills Rect.
type FillRectCmd struct{ Rect surface.Rect }

// StrokeLineCmd strokes a segment.
type StrokeLineCmd struct{ X1, Y1, X2, Y2 float64 }

// FillTextCmd draws Text.
type FillTextCmd struct {
	Text     string
	X, Y     float64
	MaxWidth float64
}

// BeginPathCmd clears the current path.
type BeginPathCmd struct{}

// MoveToCmd starts a subpath.
type MoveToCmd struct{ X, Y float64 }

// LineToCmd adds a line.
type LineToCmd struct{ X, Y float64 }

// ArcCmd adds a circular arc.
type ArcCmd struct{ CX, CY, R, A0, A1 float64 }

// ClosePathCmd closes the subpath.
type ClosePathCmd struct{}

// FillPathCmd fills the path.
type FillPathCmd struct{}

func (SaveCmd) Type() CommandType       { return CmdSave }
func (RestoreCmd) Type() CommandType    { return CmdRestore }
func (TranslateCmd) Type() CommandType  { return CmdTranslate }
func (ClipRectCmd) Type() CommandType   { return CmdClipRect }
func (SetFillCmd) Type() CommandType    { return CmdSetFill }
func (SetStrokeCmd) Type() CommandType  { return CmdSetStroke }
func (SetFontCmd) Type() CommandType    { return CmdSetFont }
func (FillRectCmd) Type() CommandType   { return CmdFillRect }
func (StrokeLineCmd) Type() CommandType { return CmdStrokeLine }
func (FillTextCmd) Type() CommandType   { return CmdFillText }
func (BeginPathCmd) Type() CommandType  { return CmdBeginPath }
func (MoveToCmd) Type() CommandType     { return CmdMoveTo }
func (LineToCmd) Type() CommandType     { return CmdLineTo }
func (ArcCmd) Type() CommandType        { return CmdArc }
func (ClosePathCmd) Type() CommandType  { return CmdClosePath }
func (FillPathCmd) Type() CommandType   { return CmdFillPath }

func (c TranslateCmd) String() string { return fmt.Sprintf("Translate(%g, %g)", c.DX, c.DY) }
func (c ClipRectCmd) String() string {
	return fmt.Sprintf("ClipRect(%g, %g, %g, %g)", c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
}
func (c FillRectCmd) String() string {
	return fmt.Sprintf("FillRect(%g, %g, %g, %g)", c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
}
func (c FillTextCmd) String() string {
	return fmt.Sprintf("FillText(%q, %g, %g, %g)", c.Text, c.X, c.Y, c.MaxWidth)
}

func toNRGBA(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
