package term

import (
	"image/color"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"gridpane/internal/grid"
	"gridpane/internal/surface"
	"gridpane/internal/table"
)

func TestNew_Size(t *testing.T) {
	s := New(24, 32)
	cols, rows := s.Size()
	require.Equal(t, 3, cols)
	require.Equal(t, 2, rows)
	require.Equal(t, "   \n   ", s.Plain())

	cols, rows = New(25, 1).Size()
	require.Equal(t, 4, cols)
	require.Equal(t, 1, rows)
}

func TestRender_Grid(t *testing.T) {
	tbl := table.New(2, 2, table.WithCellSize(40, 32))
	require.NoError(t, tbl.SetCell(0, 0, "ab"))
	require.NoError(t, tbl.SetCell(1, 1, "cd"))

	s := New(tbl.Width, tbl.Height)
	grid.Render(s, tbl, grid.Viewport{})

	require.Equal(t, strings.Join([]string{
		"     │    ",
		" ab  │    ",
		"─────┼────",
		"     │ cd ",
	}, "\n"), s.Plain())
}

func TestFillText_Clipped(t *testing.T) {
	s := New(40, 16)
	s.Save()
	s.ClipRect(0, 0, 16, 16)
	s.FillText("hello", 0, 8, 100)
	s.Restore()

	require.Equal(t, "he   ", s.Plain())
}

func TestFillText_MaxWidthAndWideRunes(t *testing.T) {
	s := New(40, 32)
	s.FillText("abcdef", 0, 8, 24)
	s.FillText("表x", 0, 24, 100)

	require.Equal(t, "abc  \n表x  ", s.Plain())
	require.Equal(t, 32.0, s.MeasureText("表格"))
}

func TestTranslate_ScopedBySave(t *testing.T) {
	s := New(40, 16)
	s.Save()
	s.Translate(16, 0)
	s.FillText("x", 0, 8, 8)
	s.Restore()
	s.FillText("y", 0, 8, 8)

	require.Equal(t, "y x  ", s.Plain())
}

func TestFillRoundRect_DegradesToCells(t *testing.T) {
	s := New(16, 16)
	s.SetFill(color.NRGBA{R: 0xff, A: 0xff})
	surface.FillRoundRect(s, 0, 0, 16, 16, 4)

	require.NotNil(t, s.cells[0][0].bg)
	require.Equal(t, "#ff0000", surface.Hex(s.cells[0][1].bg))
}

func TestString_OneLinePerRow(t *testing.T) {
	s := New(24, 48)
	s.SetFill(color.White)
	s.FillRect(0, 0, 24, 16)
	require.Len(t, strings.Split(s.String(), "\n"), 3)
}

func TestRestore_Unbalanced(t *testing.T) {
	require.NotPanics(t, New(8, 8).Restore)
}

func TestTint_KeepsRunes(t *testing.T) {
	s := New(24, 16)
	s.FillText("abc", 0, 8, 24)
	s.Tint(8, 0, 8, 16, color.White)

	require.Equal(t, "abc", s.Plain())
	require.Nil(t, s.cells[0][0].bg)
	require.Equal(t, "#ffffff", surface.Hex(s.cells[0][1].bg))
	require.Nil(t, s.cells[0][2].bg)
}

func TestFillRect_OverWideRuneHalf(t *testing.T) {
	s := New(32, 16)
	s.FillText("表", 0, 8, 32)
	s.SetFill(color.White)
	s.FillRect(8, 0, 8, 16)
	require.Equal(t, "    ", s.Plain(), "trailing half overwritten")

	s = New(32, 16)
	s.FillText("表", 0, 8, 32)
	s.SetFill(color.White)
	s.FillRect(0, 0, 8, 16)
	require.Equal(t, "    ", s.Plain(), "lead half overwritten")
}

func TestStrokeLine_OverWideRune(t *testing.T) {
	s := New(32, 16)
	s.FillText("表x", 0, 8, 32)
	s.StrokeLine(4, 0, 4, 16)
	require.Equal(t, "│ x ", s.Plain())
}

func TestFillText_OverlappingWideRunes(t *testing.T) {
	s := New(32, 16)
	s.FillText("表表", 0, 8, 32)
	s.FillText("a", 8, 8, 8)
	require.Equal(t, " a表", s.Plain())
	require.Equal(t, 4, runewidth.StringWidth(s.Plain()))
}

func TestRender_FrozenColumnOverWideText(t *testing.T) {
	tbl := table.New(1, 3, table.WithViewport(200, 0))
	require.NoError(t, tbl.ResizeColumn(0, 104))
	require.NoError(t, tbl.SetCell(0, 1, "表表表"))
	tbl.FrozenColumns = 1
	tbl.SetCrop(12, 0)

	s := New(tbl.Width, tbl.Height)
	grid.Render(s, tbl, grid.Viewport{})

	cols, _ := s.Size()
	for i, line := range strings.Split(s.Plain(), "\n") {
		require.Equal(t, cols, runewidth.StringWidth(line), "line %d: %q", i, line)
	}
}
