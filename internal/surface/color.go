package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Transparent is the fully transparent color.
var Transparent = color.NRGBA{}

// ParseColor parses "#rgb", "#rrggbb" or "transparent". The empty string
// parses as transparent.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "transparent" {
		return Transparent, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// MustColor is ParseColor for compile-time palette literals.
func MustColor(s string) color.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// IsTransparent reports whether c has zero alpha.
func IsTransparent(c color.Color) bool {
	if c == nil {
		return true
	}
	_, _, _, a := c.RGBA()
	return a == 0
}

// Blend mixes fg over bg at opacity t in [0, 1], in RGB space.
func Blend(fg, bg color.Color, t float64) color.Color {
	f, ok := colorful.MakeColor(fg)
	if !ok {
		return bg
	}
	b, ok := colorful.MakeColor(bg)
	if !ok {
		return fg
	}
	r, g, bl := b.BlendRgb(f, t).Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: 0xff}
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.Color) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cc.Hex()
}
