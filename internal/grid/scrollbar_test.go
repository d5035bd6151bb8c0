package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gridpane/internal/table"
)

// tallTable has 500px of content behind a 200px viewport.
func tallTable() *table.Table {
	return table.New(5, 2, table.WithCellSize(100, 100), table.WithViewport(0, 200))
}

func TestComputeScrollbar_Endpoints(t *testing.T) {
	tbl := tallTable()

	sb := ComputeScrollbar(tbl, 10)
	require.True(t, sb.Visible)
	require.Equal(t, sb.TrackStart, sb.ThumbY, "thumb starts at the top of the track")
	require.InDelta(t, 80.0, sb.ThumbHeight, 1e-9, "200/500 of a 200px track")

	tbl.SetScroll(tbl.MaxScroll())
	sb = ComputeScrollbar(tbl, 10)
	require.Equal(t, 1.0, sb.Ratio)
	require.InDelta(t, sb.TrackStart+sb.TrackHeight, sb.ThumbBottom(), 1e-9, "thumb ends at the bottom of the track")
}

func TestComputeScrollbar_HiddenWhenContentFits(t *testing.T) {
	tbl := table.New(5, 2, table.WithCellSize(100, 100), table.WithViewport(0, 499.6))
	require.False(t, ComputeScrollbar(tbl, 10).Visible, "overflow within tolerance")

	require.False(t, ComputeScrollbar(table.New(5, 2), 10).Visible)
}

func TestComputeScrollbar_TrackStartsBelowFrozenRows(t *testing.T) {
	tbl := tallTable()
	tbl.FrozenRows = 1

	sb := ComputeScrollbar(tbl, 10)
	require.Equal(t, 100.0, sb.TrackStart)
	require.Equal(t, 100.0, sb.TrackHeight)
	require.InDelta(t, MinThumbHeight, sb.ThumbHeight, 1e-9)

	tbl.SetCrop(0, 30)
	sb = ComputeScrollbar(tbl, 10)
	require.Equal(t, 70.0, sb.TrackStart, "only the visible part of the strip")
}

func TestComputeScrollbar_Width(t *testing.T) {
	tbl := tallTable()

	sb := ComputeScrollbar(tbl, 8)
	require.Equal(t, 4.0, sb.Width)
	require.Equal(t, tbl.Width-4-2, sb.X)

	sb = ComputeScrollbar(tbl, 40)
	require.InDelta(t, 14.0, sb.Width, 1e-9)
}

func TestScrollbar_HitThumb(t *testing.T) {
	tbl := tallTable()
	sb := ComputeScrollbar(tbl, 10)

	require.True(t, sb.HitThumb(sb.X+1, sb.ThumbY+1))
	require.False(t, sb.HitThumb(sb.X-1, sb.ThumbY+1))
	require.False(t, sb.HitThumb(sb.X+1, sb.ThumbBottom()+1))
	require.False(t, Scrollbar{}.HitThumb(0, 0))
}

func TestScrollForThumb_Clamps(t *testing.T) {
	tbl := tallTable()
	sb := ComputeScrollbar(tbl, 10)

	require.Equal(t, 0.0, ScrollForThumb(tbl, sb, -50))
	require.Equal(t, tbl.MaxScroll(), ScrollForThumb(tbl, sb, 1e6))
	require.Equal(t, 0.0, ScrollForThumb(tbl, Scrollbar{}, 10))
}

func TestScrollbar_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tbl := genTable(t)
		tbl.Height = rapid.Float64Range(1, tbl.TotalHeight()).Draw(t, "h")
		tbl.FrozenRows = rapid.IntRange(0, tbl.Rows+2).Draw(t, "frozen")
		tbl.SetCrop(0, rapid.Float64Range(0, tbl.TotalHeight()).Draw(t, "cropY"))
		tbl.SetScroll(rapid.Float64Range(0, tbl.TotalHeight()).Draw(t, "scroll"))

		sb := ComputeScrollbar(tbl, 12)
		if !sb.Visible {
			if tbl.IsScrollable() {
				t.Fatalf("scrollable table without scrollbar")
			}
			return
		}

		const eps = 1e-6
		if sb.ThumbHeight > sb.TrackHeight+eps || sb.ThumbHeight < math.Min(MinThumbHeight, sb.TrackHeight)-eps {
			t.Fatalf("thumb %v outside [min, track %v]", sb.ThumbHeight, sb.TrackHeight)
		}
		if sb.ThumbY < sb.TrackStart-eps || sb.ThumbBottom() > sb.TrackStart+sb.TrackHeight+eps {
			t.Fatalf("thumb [%v, %v] escapes track [%v, %v]",
				sb.ThumbY, sb.ThumbBottom(), sb.TrackStart, sb.TrackStart+sb.TrackHeight)
		}
		if sb.TrackHeight-sb.ThumbHeight > 1 {
			got := ScrollForThumb(tbl, sb, sb.ThumbY)
			if math.Abs(got-tbl.ScrollOffsetY) > 1e-6*math.Max(1, tbl.MaxScroll()) {
				t.Fatalf("ScrollForThumb = %v, want %v", got, tbl.ScrollOffsetY)
			}
		}
	})
}
