package record

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/mattn/go-runewidth"

	"gridpane/internal/surface"
)

// MeasureFunc measures s in font f.
type MeasureFunc func(s string, f surface.Font) float64

// FixedAdvance returns a MeasureFunc where every terminal cell of text
// advances by w pixels regardless of font.
func FixedAdvance(w float64) MeasureFunc {
	return func(s string, _ surface.Font) float64 {
		return float64(runewidth.StringWidth(s)) * w
	}
}

// ProportionalAdvance approximates a proportional face: each cell advances
// by ratio × font size.
func ProportionalAdvance(ratio float64) MeasureFunc {
	return func(s string, f surface.Font) float64 {
		return float64(runewidth.StringWidth(s)) * f.Size * ratio
	}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMeasure sets the text measurement function.
func WithMeasure(m MeasureFunc) Option {
	return func(r *Recorder) { r.measure = m }
}

// WithoutPaths makes FillPath fail with surface.ErrUnsupported, simulating
// a backend that cannot fill arbitrary paths.
func WithoutPaths() Option {
	return func(r *Recorder) { r.noPaths = true }
}

// Recorder is a surface.PathSurface that records every call.
type Recorder struct {
	commands []Command
	measure  MeasureFunc
	noPaths  bool

	font      surface.Font
	fontStack []surface.Font
	maxDepth  int
}

var _ surface.PathSurface = (*Recorder)(nil)

// New creates an empty recorder. The default measurement is
// ProportionalAdvance(0.6).
func New(opts ...Option) *Recorder {
	r := &Recorder{
		commands: make([]Command, 0, 256),
		measure:  ProportionalAdvance(0.6),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Reset discards recorded commands and state.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.font = surface.Font{}
	r.fontStack = r.fontStack[:0]
	r.maxDepth = 0
}

// Depth is the number of unmatched Save calls.
func (r *Recorder) Depth() int {
	return len(r.fontStack)
}

// MaxDepth is the deepest Save nesting seen.
func (r *Recorder) MaxDepth() int {
	return r.maxDepth
}

// Groups splits the commands into top-level Save…Restore groups. Commands
// issued at depth zero outside any group are dropped.
func (r *Recorder) Groups() [][]Command {
	var groups [][]Command
	depth, start := 0, 0
	for i, c := range r.commands {
		switch c.Type() {
		case CmdSave:
			if depth == 0 {
				start = i
			}
			depth++
		case CmdRestore:
			depth--
			if depth == 0 {
				groups = append(groups, r.commands[start:i+1])
			}
		}
	}
	return groups
}

// Count returns how many commands of type t were recorded.
func (r *Recorder) Count(t CommandType) int {
	n := 0
	for _, c := range r.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Texts returns the text of every FillText command, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.commands {
		if t, ok := c.(FillTextCmd); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

// String dumps the recording, one command per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, c := range r.commands {
		if s, ok := c.(fmt.Stringer); ok {
			b.WriteString(s.String())
		} else {
			b.WriteString(c.Type().String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Playback replays the recording onto dst. Path commands are skipped when
// dst has no path support; FillPath errors are returned.
func (r *Recorder) Playback(dst surface.Surface) error {
	p, hasPaths := dst.(surface.PathSurface)
	for i, c := range r.commands {
		switch c := c.(type) {
		case SaveCmd:
			dst.Save()
		case RestoreCmd:
			dst.Restore()
		case TranslateCmd:
			dst.Translate(c.DX, c.DY)
		case ClipRectCmd:
			dst.ClipRect(c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
		case SetFillCmd:
			dst.SetFill(c.Color)
		case SetStrokeCmd:
			dst.SetStroke(c.Color, c.Width, c.Dash)
		case SetFontCmd:
			dst.SetFont(c.Font)
		case FillRectCmd:
			dst.FillRect(c.Rect.X, c.Rect.Y, c.Rect.W, c.Rect.H)
		case StrokeLineCmd:
			dst.StrokeLine(c.X1, c.Y1, c.X2, c.Y2)
		case FillTextCmd:
			dst.FillText(c.Text, c.X, c.Y, c.MaxWidth)
		default:
			if !hasPaths {
				continue
			}
			if err := playPath(p, c); err != nil {
				return fmt.Errorf("playback command %d (%s): %w", i, c.Type(), err)
			}
		}
	}
	return nil
}

func playPath(p surface.PathSurface, c Command) error {
	switch c := c.(type) {
	case BeginPathCmd:
		p.BeginPath()
	case MoveToCmd:
		p.MoveTo(c.X, c.Y)
	case LineToCmd:
		p.LineTo(c.X, c.Y)
	case ArcCmd:
		p.Arc(c.CX, c.CY, c.R, c.A0, c.A1)
	case ClosePathCmd:
		p.ClosePath()
	case FillPathCmd:
		return p.FillPath()
	}
	return nil
}

// --------------------------------------------------------------------------
// surface.PathSurface
// --------------------------------------------------------------------------

func (r *Recorder) add(c Command) { r.commands = append(r.commands, c) }

func (r *Recorder) Save() {
	r.fontStack = append(r.fontStack, r.font)
	r.maxDepth = max(r.maxDepth, len(r.fontStack))
	r.add(SaveCmd{})
}

func (r *Recorder) Restore() {
	if n := len(r.fontStack); n > 0 {
		r.font = r.fontStack[n-1]
		r.fontStack = r.fontStack[:n-1]
	}
	r.add(RestoreCmd{})
}

func (r *Recorder) Translate(dx, dy float64) { r.add(TranslateCmd{DX: dx, DY: dy}) }

func (r *Recorder) ClipRect(x, y, w, h float64) {
	r.add(ClipRectCmd{Rect: surface.Rect{X: x, Y: y, W: w, H: h}})
}

func (r *Recorder) SetFill(c color.Color) { r.add(SetFillCmd{Color: toNRGBA(c)}) }

func (r *Recorder) SetStroke(c color.Color, width float64, dash []float64) {
	r.add(SetStrokeCmd{Color: toNRGBA(c), Width: width, Dash: append([]float64(nil), dash...)})
}

func (r *Recorder) SetFont(f surface.Font) {
	r.font = f
	r.add(SetFontCmd{Font: f})
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.add(FillRectCmd{Rect: surface.Rect{X: x, Y: y, W: w, H: h}})
}

func (r *Recorder) StrokeLine(x1, y1, x2, y2 float64) {
	r.add(StrokeLineCmd{X1: x1, Y1: y1, X2: x2, Y2: y2})
}

func (r *Recorder) MeasureText(s string) float64 { return r.measure(s, r.font) }

func (r *Recorder) FillText(s string, x, y, maxWidth float64) {
	r.add(FillTextCmd{Text: s, X: x, Y: y, MaxWidth: maxWidth})
}

func (r *Recorder) BeginPath()          { r.add(BeginPathCmd{}) }
func (r *Recorder) MoveTo(x, y float64) { r.add(MoveToCmd{X: x, Y: y}) }
func (r *Recorder) LineTo(x, y float64) { r.add(LineToCmd{X: x, Y: y}) }
func (r *Recorder) ClosePath()          { r.add(ClosePathCmd{}) }

func (r *Recorder) Arc(cx, cy, radius, a0, a1 float64) {
	r.add(ArcCmd{CX: cx, CY: cy, R: radius, A0: a0, A1: a1})
}

func (r *Recorder) FillPath() error {
	if r.noPaths {
		return surface.ErrUnsupported
	}
	r.add(FillPathCmd{})
	return nil
}
