package grid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gridpane/internal/surface"
	"gridpane/internal/table"
)

func TestFontSize(t *testing.T) {
	require.InDelta(t, 36*0.44, FontSize(table.New(2, 2)), 1e-9)

	tbl := table.New(2, 2, table.WithFontSize(40))
	require.InDelta(t, 36*0.85, FontSize(tbl), 1e-9, "override is capped by the smallest row")

	tbl = table.New(2, 2, table.WithFontSize(12))
	require.Equal(t, 12.0, FontSize(tbl))

	tbl = table.New(2, 2, table.WithCellSize(100, 1))
	require.Equal(t, 1.0, FontSize(tbl))

	tbl = table.New(2, 2, table.WithCellSize(100, 500))
	require.Equal(t, 72.0, FontSize(tbl))
}

func TestStyleFor_Sizes(t *testing.T) {
	st := StyleFor(table.New(2, 2), ThemeLight)
	require.InDelta(t, 36*0.44*0.5, st.Padding, 1e-9)
	require.Equal(t, 1.0, st.LineWidth)
	require.False(t, st.Font.Bold)
	require.True(t, st.HeaderFont.Bold)
	require.Equal(t, st.FontSize, st.HeaderFont.Size)

	st = StyleFor(table.New(2, 2, table.WithCellSize(100, 7)), ThemeLight)
	require.InDelta(t, 0.5, st.LineWidth, 1e-9)

	st = StyleFor(table.New(2, 2, table.WithCellSize(100, 4)), ThemeLight)
	require.Equal(t, 1.0, st.Padding, "padding floor")

	st = StyleFor(table.New(2, 2, table.WithCellSize(100, 1)), ThemeLight)
	require.Equal(t, 0.2, st.LineWidth)
}

func TestStyleFor_Colors(t *testing.T) {
	tbl := table.New(2, 2)

	require.Equal(t, "#ffffff", surface.Hex(StyleFor(tbl, ThemeLight).Background),
		"transparent background renders opaque")
	require.Equal(t, "#121212", surface.Hex(StyleFor(tbl, ThemeDark).Background))
	require.Equal(t, table.DefaultStrokeColor, surface.Hex(StyleFor(tbl, ThemeLight).Text))
	require.Equal(t, "#e3e3e8", surface.Hex(StyleFor(tbl, ThemeDark).Text))

	tbl = table.New(2, 2, table.WithColors("#ff0000", "#00ff00"))
	st := StyleFor(tbl, ThemeDark)
	require.Equal(t, "#ff0000", surface.Hex(st.Text))
	require.Equal(t, "#00ff00", surface.Hex(st.Background))

	tbl = table.New(2, 2, table.WithColors("not-a-color", ""))
	require.Equal(t, table.DefaultStrokeColor, surface.Hex(StyleFor(tbl, ThemeLight).Text))
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme("Dark")
	require.NoError(t, err)
	require.Equal(t, ThemeDark, th)
	require.Equal(t, "dark", th.String())

	th, err = ParseTheme("")
	require.NoError(t, err)
	require.Equal(t, ThemeLight, th)

	_, err = ParseTheme("sepia")
	require.Error(t, err)
}
