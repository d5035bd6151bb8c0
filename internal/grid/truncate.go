package grid

import "github.com/rivo/uniseg"

// Ellipsis is appended to truncated cell text.
const Ellipsis = "…"

// Measurer measures text in the current font.
type Measurer interface {
	MeasureText(s string) float64
}

// Truncate fits text into maxWidth. Text that fits is returned unchanged.
// Otherwise trailing grapheme clusters are removed one at a time, re-measuring
// with Ellipsis appended, until the candidate fits; the worst case is the
// bare Ellipsis. The loop never overflows regardless of font metrics.
func Truncate(m Measurer, text string, maxWidth float64) string {
	if m.MeasureText(text) <= maxWidth {
		return text
	}

	var ends []int
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		_, end := g.Positions()
		ends = append(ends, end)
	}

	for keep := len(ends) - 1; keep > 0; keep-- {
		candidate := text[:ends[keep-1]] + Ellipsis
		if m.MeasureText(candidate) <= maxWidth {
			return candidate
		}
	}
	return Ellipsis
}
