package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gridpane/internal/surface"
	"gridpane/internal/surface/record"
	"gridpane/internal/table"
)

// frozenTable is 10×4 with 36px rows and 100px columns behind a 300×144
// viewport, two frozen rows, one frozen column, crop (20, 10), scroll 30.
func frozenTable(t *testing.T) *table.Table {
	tbl := table.New(10, 4, table.WithViewport(300, 144), table.WithFrozen(2, 1))
	tbl.SetCrop(20, 10)
	tbl.SetScroll(30)
	require.Equal(t, 20.0, tbl.CropX)
	require.Equal(t, 10.0, tbl.CropY)
	require.Equal(t, 30.0, tbl.ScrollOffsetY)
	for r := 0; r < tbl.Rows; r++ {
		for c := 0; c < tbl.Columns; c++ {
			require.NoError(t, tbl.SetCell(r, c, fmt.Sprintf("r%dc%d", r, c)))
		}
	}
	return tbl
}

func TestPanes_NoFrozen(t *testing.T) {
	tbl := table.New(10, 4, table.WithViewport(300, 144))
	tbl.SetScroll(50)

	ps := Panes(tbl)
	require.Len(t, ps, 1)
	require.Equal(t, Pane{
		Kind:    PaneBase,
		Clip:    surface.Rect{W: 300, H: 144},
		OffsetY: -50,
		Range:   Range{RowEnd: 10, ColEnd: 4},
	}, ps[0])
}

func TestPanes_AllFour(t *testing.T) {
	ps := Panes(frozenTable(t))

	require.Equal(t, []Pane{
		{
			Kind: PaneBase, Clip: surface.Rect{W: 300, H: 144},
			OffsetX: -20, OffsetY: -40, Range: Range{RowEnd: 10, ColEnd: 4},
		},
		{
			Kind: PaneFrozenRows, Clip: surface.Rect{W: 300, H: 62},
			OffsetX: -20, OffsetY: -10, Range: Range{RowEnd: 2, ColEnd: 4},
		},
		{
			Kind: PaneFrozenColumns, Clip: surface.Rect{W: 100, H: 144},
			OffsetY: -40, Range: Range{RowEnd: 10, ColEnd: 1},
		},
		{
			Kind: PaneFrozenCorner, Clip: surface.Rect{W: 100, H: 62},
			OffsetY: -10, Range: Range{RowEnd: 2, ColEnd: 1},
		},
	}, ps)
}

func TestPanes_FrozenRowsCroppedAway(t *testing.T) {
	tbl := table.New(10, 4, table.WithViewport(300, 144), table.WithFrozen(1, 1))
	tbl.SetCrop(0, 40)

	ps := Panes(tbl)
	require.Len(t, ps, 2)
	require.Equal(t, PaneBase, ps[0].Kind)
	require.Equal(t, PaneFrozenColumns, ps[1].Kind)

	sb := ComputeScrollbar(tbl, 10)
	require.True(t, sb.Visible)
	require.Equal(t, 0.0, sb.TrackStart)
}

func TestPanes_FrozenCountsClamped(t *testing.T) {
	tbl := table.New(3, 2, table.WithFrozen(99, 99))
	fz := FrozenLayout(tbl)
	require.Equal(t, 3, fz.Rows)
	require.Equal(t, 2, fz.Columns)
	require.Equal(t, 108.0, fz.RowHeight)
	require.Equal(t, 200.0, fz.ColumnWidth)
}

func TestPaneKind_String(t *testing.T) {
	require.Equal(t, "frozen-corner", PaneFrozenCorner.String())
	require.Equal(t, "unknown", PaneKind(9).String())
}

func TestRender_PassStructure(t *testing.T) {
	tbl := frozenTable(t)
	rec := fixed()
	Render(rec, tbl, Viewport{})

	ps := Panes(tbl)
	groups := rec.Groups()
	require.Len(t, groups, len(ps)+1, "one group per pane plus the scrollbar")
	for i, p := range ps {
		g := groups[i]
		require.Equal(t, record.SaveCmd{}, g[0], p.Kind.String())
		require.Equal(t, record.ClipRectCmd{Rect: p.Clip}, g[1], p.Kind.String())
		require.Equal(t, record.TranslateCmd{DX: p.OffsetX, DY: p.OffsetY}, g[2], p.Kind.String())
	}
	require.Equal(t, 0, rec.Depth(), "save/restore balanced")
	require.Equal(t, rec.Count(record.CmdSave), rec.Count(record.CmdRestore))
}

func TestRender_ScrollbarIsRoundedAndLast(t *testing.T) {
	tbl := frozenTable(t)
	rec := fixed()
	Render(rec, tbl, Viewport{})

	groups := rec.Groups()
	last := groups[len(groups)-1]
	require.Equal(t, record.CmdSetFill, last[1].Type())
	require.Equal(t, 1, rec.Count(record.CmdFillPath))
}

func TestRender_NoScrollbarWhenContentFits(t *testing.T) {
	tbl := table.New(3, 3)
	rec := fixed()
	Render(rec, tbl, Viewport{})

	require.Len(t, rec.Groups(), 1)
	require.Equal(t, 0, rec.Count(record.CmdFillPath))
}

func TestRender_Idempotent(t *testing.T) {
	tbl := frozenTable(t)
	before := tbl.Clone()

	a, b := fixed(), fixed()
	Render(a, tbl, Viewport{Theme: ThemeDark})
	Render(b, tbl, Viewport{Theme: ThemeDark})

	require.Equal(t, a.Commands(), b.Commands())
	require.Equal(t, before, tbl, "render must not mutate the table")
}

func TestRender_FrozenCountsBeyondTableMatchClamped(t *testing.T) {
	tbl := frozenTable(t)
	tbl.FrozenRows, tbl.FrozenColumns = tbl.Rows, tbl.Columns
	over := tbl.Clone()
	over.FrozenRows, over.FrozenColumns = 50, 60

	a, b := fixed(), fixed()
	Render(a, tbl, Viewport{})
	Render(b, over, Viewport{})
	require.Equal(t, a.Commands(), b.Commands())
}

func TestRender_PinnedPassesIgnoreScroll(t *testing.T) {
	tbl := frozenTable(t)
	scrolled := tbl.Clone()
	scrolled.SetScroll(150)

	a, b := fixed(), fixed()
	Render(a, tbl, Viewport{})
	Render(b, scrolled, Viewport{})

	ga, gb := a.Groups(), b.Groups()
	require.Equal(t, ga[1], gb[1], "frozen rows")
	require.Equal(t, ga[3], gb[3], "frozen corner")
	require.NotEqual(t, ga[0], gb[0], "base pass scrolls")
}

func TestRender_CornerDrawnLastAtUnscrolledPosition(t *testing.T) {
	tbl := table.New(5, 5, table.WithViewport(300, 72), table.WithFrozen(1, 1))
	require.NoError(t, tbl.SetCell(0, 0, "corner"))
	tbl.SetCrop(0, 0)
	tbl.SetScroll(100)
	require.Equal(t, 100.0, tbl.ScrollOffsetY)

	unscrolled := tbl.Clone()
	unscrolled.SetScroll(0)

	a, b := fixed(), fixed()
	Render(a, tbl, Viewport{})
	Render(b, unscrolled, Viewport{})

	ps := Panes(tbl)
	require.Len(t, ps, 4)
	require.Equal(t, PaneFrozenCorner, ps[3].Kind)

	groups := a.Groups()
	last := -1
	for i, g := range groups {
		for _, c := range g {
			if ft, ok := c.(record.FillTextCmd); ok && ft.Text == "corner" {
				last = i
			}
		}
	}
	require.Equal(t, 3, last, "the corner pass paints cell (0,0) last")
	require.Equal(t, record.TranslateCmd{}, groups[3][2], "corner is not scrolled")
	require.Equal(t, b.Groups()[3], groups[3], "corner matches the unscrolled render")
}

func TestRenderPane_MatchesRenderGroup(t *testing.T) {
	tbl := frozenTable(t)
	full := fixed()
	Render(full, tbl, Viewport{})

	ps := Panes(tbl)
	single := fixed()
	RenderPane(single, tbl, ps[3], Viewport{})
	require.Equal(t, full.Groups()[3], single.Commands())
}

func TestPaintRange_Commands(t *testing.T) {
	tbl := table.New(2, 2)
	require.NoError(t, tbl.SetCell(0, 0, "A"))
	require.NoError(t, tbl.SetCell(1, 1, "B"))
	st := StyleFor(tbl, ThemeLight)

	rec := fixed()
	PaintRange(rec, tbl, st, Range{RowEnd: 2, ColEnd: 2}, nil)

	require.Equal(t, []record.CommandType{
		record.CmdSave,
		record.CmdSetFill, record.CmdFillRect,
		record.CmdSetStroke, record.CmdStrokeLine, record.CmdStrokeLine,
		record.CmdSetFill, record.CmdSetFont,
		record.CmdSave, record.CmdClipRect, record.CmdFillText, record.CmdRestore,
		record.CmdSave, record.CmdClipRect, record.CmdFillText, record.CmdRestore,
		record.CmdRestore,
	}, commandTypes(rec.Commands()))

	cmds := rec.Commands()
	require.Equal(t, record.FillRectCmd{Rect: surface.Rect{W: 200, H: 72}}, cmds[2])
	require.Equal(t, record.StrokeLineCmd{X1: 0, Y1: 36, X2: 200, Y2: 36}, cmds[4])
	require.Equal(t, record.StrokeLineCmd{X1: 100, Y1: 0, X2: 100, Y2: 72}, cmds[5])
	require.Equal(t, record.ClipRectCmd{Rect: surface.Rect{X: 100, Y: 36, W: 100, H: 36}}, cmds[13])
	require.Equal(t, record.FillTextCmd{
		Text: "B", X: 100 + st.Padding, Y: 54, MaxWidth: 100 - 2*st.Padding,
	}, cmds[14])
}

func TestPaintRange_HeaderAccentAndBold(t *testing.T) {
	tbl := table.New(2, 2, table.WithHeaderRow(true))
	require.NoError(t, tbl.SetCell(0, 0, "Name"))
	require.NoError(t, tbl.SetCell(1, 0, "Ada"))
	st := StyleFor(tbl, ThemeLight)

	rec := fixed()
	PaintRange(rec, tbl, st, Range{RowEnd: 2, ColEnd: 2}, nil)

	var rects []surface.Rect
	var fonts []surface.Font
	for _, c := range rec.Commands() {
		switch c := c.(type) {
		case record.FillRectCmd:
			rects = append(rects, c.Rect)
		case record.SetFontCmd:
			fonts = append(fonts, c.Font)
		}
	}
	require.Equal(t, []surface.Rect{{W: 200, H: 72}, {W: 200, H: 36}}, rects)
	require.Equal(t, []surface.Font{st.HeaderFont, st.Font}, fonts)
}

func TestPaintRange_SubRangeHasNoOuterLinesOrAccent(t *testing.T) {
	tbl := table.New(2, 2, table.WithHeaderRow(true))
	require.NoError(t, tbl.SetCell(1, 1, "B"))

	rec := fixed()
	PaintRange(rec, tbl, StyleFor(tbl, ThemeLight), Range{RowStart: 1, RowEnd: 2, ColStart: 1, ColEnd: 2}, nil)

	require.Equal(t, 0, rec.Count(record.CmdStrokeLine))
	require.Equal(t, 1, rec.Count(record.CmdFillRect))
	require.Equal(t, record.FillRectCmd{Rect: surface.Rect{X: 100, Y: 36, W: 100, H: 36}}, rec.Commands()[2])
	require.Equal(t, []string{"B"}, rec.Texts())
}

func TestPaintRange_EmptyRangeDrawsNothing(t *testing.T) {
	tbl := table.New(2, 2)
	rec := fixed()
	PaintRange(rec, tbl, StyleFor(tbl, ThemeLight), Range{RowStart: 1, RowEnd: 1, ColEnd: 2}, nil)
	require.Empty(t, rec.Commands())
}

func TestPaintRange_TruncatesLongText(t *testing.T) {
	tbl := table.New(1, 1, table.WithCellSize(40, 36), table.WithFontSize(8))
	require.NoError(t, tbl.SetCell(0, 0, "Excalidraw"))

	rec := fixed()
	PaintRange(rec, tbl, StyleFor(tbl, ThemeLight), Range{RowEnd: 1, ColEnd: 1}, nil)
	// 40px cell minus 2×4px padding leaves 32px: three 8px cells plus the ellipsis.
	require.Equal(t, []string{"Exc…"}, rec.Texts())
}

func TestPaintRange_CullsOffscreenRows(t *testing.T) {
	tbl := table.New(100, 3, table.WithViewport(0, 144))
	for r := 0; r < tbl.Rows; r++ {
		for c := 0; c < tbl.Columns; c++ {
			require.NoError(t, tbl.SetCell(r, c, "x"))
		}
	}
	rec := fixed()
	Render(rec, tbl, Viewport{})
	require.Equal(t, 12, rec.Count(record.CmdFillText), "four visible rows of three")
}

func TestPaintRange_CullingPreservesVisibleCells_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tbl := genTable(t)
		for r := 0; r < tbl.Rows; r++ {
			for c := 0; c < tbl.Columns; c++ {
				_ = tbl.SetCell(r, c, fmt.Sprint(r*tbl.Columns+c))
			}
		}
		tbl.Width = rapid.Float64Range(1, tbl.TotalWidth()).Draw(t, "w")
		tbl.Height = rapid.Float64Range(1, tbl.TotalHeight()).Draw(t, "h")
		tbl.SetCrop(
			rapid.Float64Range(0, tbl.TotalWidth()).Draw(t, "cropX"),
			rapid.Float64Range(0, tbl.TotalHeight()).Draw(t, "cropY"))
		tbl.SetScroll(rapid.Float64Range(0, tbl.TotalHeight()).Draw(t, "scroll"))

		base := Panes(tbl)[0]
		vis := base.Visible()
		st := StyleFor(tbl, ThemeLight)

		full, culled := fixed(), fixed()
		PaintRange(full, tbl, st, base.Range, nil)
		PaintRange(culled, tbl, st, base.Range, &vis)

		kept := map[record.FillTextCmd]bool{}
		for _, c := range culled.Commands() {
			if ft, ok := c.(record.FillTextCmd); ok {
				kept[ft] = true
			}
		}
		for _, c := range full.Commands() {
			ft, ok := c.(record.FillTextCmd)
			if !ok {
				continue
			}
			cell, ok := CellAt(tbl, ft.X, ft.Y)
			if !ok {
				t.Fatalf("text %q at (%v, %v) outside table", ft.Text, ft.X, ft.Y)
			}
			bounds := CellBounds(tbl, cell.Row, cell.Col)
			if !bounds.Intersect(vis).Empty() && !kept[ft] {
				t.Fatalf("visible cell %v was culled", cell)
			}
			delete(kept, ft)
		}
		if len(kept) > 0 {
			t.Fatalf("culled pass drew %d texts the full pass did not", len(kept))
		}
	})
}

func commandTypes(cmds []record.Command) []record.CommandType {
	out := make([]record.CommandType, len(cmds))
	for i, c := range cmds {
		out[i] = c.Type()
	}
	return out
}
