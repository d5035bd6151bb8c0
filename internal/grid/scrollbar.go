package grid

import (
	"math"

	"gridpane/internal/table"
)

const (
	// MinThumbHeight keeps the thumb grabbable on very long tables.
	MinThumbHeight = 20.0

	minScrollbarWidth   = 4.0
	scrollbarWidthRatio = 0.35
	scrollbarMargin     = 2.0
)

// Scrollbar is the vertical indicator geometry in viewport pixels.
type Scrollbar struct {
	Visible bool

	X     float64
	Width float64

	TrackStart  float64
	TrackHeight float64

	ThumbY      float64
	ThumbHeight float64

	// Ratio is ScrollOffsetY over the maximum scroll, clamped to [0, 1].
	Ratio float64
}

// ComputeScrollbar derives the indicator for t. The track starts below the
// visible frozen-row strip; the thumb height is proportional to the visible
// fraction of the scrollable content, never below MinThumbHeight and never
// above the track.
func ComputeScrollbar(t *table.Table, fontSize float64) Scrollbar {
	if !t.IsScrollable() {
		return Scrollbar{}
	}
	fz := FrozenLayout(t)

	trackStart := 0.0
	if fz.HasRows {
		trackStart = fz.RowVisibleHeight
	}
	track := math.Max(0, t.Height-trackStart)
	scrollable := t.TotalHeight() - t.CropY
	maxScroll := scrollable - t.Height

	ratio := 0.0
	if maxScroll > 0 {
		ratio = clamp(t.ScrollOffsetY/maxScroll, 0, 1)
	}

	thumb := MinThumbHeight
	if scrollable > 0 {
		thumb = math.Max(MinThumbHeight, track/scrollable*track)
	}
	thumb = math.Min(thumb, track)

	width := math.Max(minScrollbarWidth, fontSize*scrollbarWidthRatio)
	return Scrollbar{
		Visible:     true,
		X:           t.Width - width - scrollbarMargin,
		Width:       width,
		TrackStart:  trackStart,
		TrackHeight: track,
		ThumbY:      trackStart + ratio*(track-thumb),
		ThumbHeight: thumb,
		Ratio:       ratio,
	}
}

// ThumbBottom is the y of the thumb's lower edge.
func (sb Scrollbar) ThumbBottom() float64 {
	return sb.ThumbY + sb.ThumbHeight
}

// HitThumb reports whether viewport point (x, y) is on the thumb.
func (sb Scrollbar) HitThumb(x, y float64) bool {
	return sb.Visible &&
		x >= sb.X && x <= sb.X+sb.Width &&
		y >= sb.ThumbY && y <= sb.ThumbBottom()
}

// ScrollForThumb is the inverse of ComputeScrollbar: the ScrollOffsetY that
// places the thumb top at thumbY.
func ScrollForThumb(t *table.Table, sb Scrollbar, thumbY float64) float64 {
	free := sb.TrackHeight - sb.ThumbHeight
	if !sb.Visible || free <= 0 {
		return 0
	}
	ratio := clamp((thumbY-sb.TrackStart)/free, 0, 1)
	return ratio * t.MaxScroll()
}
