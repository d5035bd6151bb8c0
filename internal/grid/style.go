package grid

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"gridpane/internal/surface"
	"gridpane/internal/table"
)

// Theme selects one of the two palette entries.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// ParseTheme accepts "light" or "dark".
func ParseTheme(s string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "light", "":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	}
	return ThemeLight, fmt.Errorf("unknown theme %q (want light or dark)", s)
}

// Palette holds the theme-dependent colors.
type Palette struct {
	Background color.Color // opaque fill under transparent tables
	Header     color.Color // header row accent
	Text       color.Color // used when the table stroke color is unusable
	Scrollbar  color.Color
}

var palettes = [2]Palette{
	ThemeLight: {
		Background: surface.MustColor("#ffffff"),
		Header:     surface.MustColor("#f1f3f5"),
		Text:       surface.MustColor(table.DefaultStrokeColor),
		Scrollbar:  color.NRGBA{A: 0x4d},
	},
	ThemeDark: {
		Background: surface.MustColor("#121212"),
		Header:     surface.MustColor("#232329"),
		Text:       surface.MustColor("#e3e3e8"),
		Scrollbar:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x4d},
	},
}

// PaletteFor returns the palette of theme.
func PaletteFor(theme Theme) Palette {
	if theme == ThemeDark {
		return palettes[ThemeDark]
	}
	return palettes[ThemeLight]
}

// Style is the per-render derived styling of a table.
type Style struct {
	FontSize   float64
	Padding    float64
	LineWidth  float64
	Font       surface.Font
	HeaderFont surface.Font

	Text       color.Color
	Line       color.Color
	Background color.Color
	Header     color.Color
	Scrollbar  color.Color
}

const (
	fontSizeRatio     = 0.44
	maxFontFillRatio  = 0.85
	minFontSize       = 1.0
	maxFontSize       = 72.0
	paddingRatio      = 0.5
	lineWidthDivisor  = 14.0
	minLineWidth      = 0.2
	maxLineWidth      = 1.0
	gridLineIntensity = 0.35
)

// FontSize is the single font size used for every cell of t.
func FontSize(t *table.Table) float64 {
	minRow := t.MinRowHeight()
	if t.FontSize != nil {
		return math.Min(*t.FontSize, minRow*maxFontFillRatio)
	}
	return clamp(minRow*fontSizeRatio, minFontSize, maxFontSize)
}

// StyleFor derives sizes and colors for rendering t under theme.
func StyleFor(t *table.Table, theme Theme) Style {
	pal := PaletteFor(theme)
	fs := FontSize(t)

	text := pal.Text
	if c, err := surface.ParseColor(t.StrokeColor); err == nil && !surface.IsTransparent(c) {
		// The default ink is tuned for light canvases.
		if !(theme == ThemeDark && strings.EqualFold(t.StrokeColor, table.DefaultStrokeColor)) {
			text = c
		}
	}
	bg := pal.Background
	if c, err := surface.ParseColor(t.BackgroundColor); err == nil && !surface.IsTransparent(c) {
		bg = c
	}

	font := surface.Font{Family: t.FontFamily, Size: fs}
	header := font
	header.Bold = true

	return Style{
		FontSize:   fs,
		Padding:    math.Max(1, fs*paddingRatio),
		LineWidth:  clamp(t.MinRowHeight()/lineWidthDivisor, minLineWidth, maxLineWidth),
		Font:       font,
		HeaderFont: header,
		Text:       text,
		Line:       surface.Blend(text, bg, gridLineIntensity),
		Background: bg,
		Header:     pal.Header,
		Scrollbar:  pal.Scrollbar,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
