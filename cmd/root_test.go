package cmd

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gridpane/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r := 1; r <= 20; r++ {
		cell, err := excelize.CoordinatesToCellName(1, r)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", cell, r))
	}
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "Total"))
	path := filepath.Join(t.TempDir(), "numbers.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoadTable_EmptySeed(t *testing.T) {
	tc := config.Defaults().Table
	tc.Rows, tc.Columns = 4, 2

	tbl, err := loadTable("", "", tc)
	require.NoError(t, err)
	require.Equal(t, 4, tbl.Rows)
	require.Equal(t, 2, tbl.Columns)
	require.True(t, tbl.HeaderRow)
}

func TestLoadTable_Workbook(t *testing.T) {
	tc := config.Defaults().Table
	tc.Height = 100

	tbl, err := loadTable(writeWorkbook(t), "", tc)
	require.NoError(t, err)
	require.Equal(t, 20, tbl.Rows)
	require.Equal(t, 2, tbl.Columns)
	require.Equal(t, "Total", tbl.Cell(0, 1))
	require.Equal(t, 100.0, tbl.Height)
	require.True(t, tbl.IsScrollable())

	_, err = loadTable(writeWorkbook(t), "Nope", tc)
	require.Error(t, err)
}

func TestExportCommand_Text(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, `
backend: text
table:
  rows: 2
  columns: 2
  cell_width: 40
  cell_height: 32
  header_row: false
`)
	out := filepath.Join(dir, "grid.txt")

	stdout, err := execute(t, "export", "--config", cfgPath, "-o", out)
	require.NoError(t, err)
	require.Equal(t, out, strings.TrimSpace(stdout))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"     │    ",
		"     │    ",
		"─────┼────",
		"     │    ",
		"",
	}, "\n"), string(data))
}

func TestExportCommand_PNG(t *testing.T) {
	cfgPath := writeConfig(t, `
theme: dark
zoom: 2
table:
  height: 120
`)
	out := filepath.Join(t.TempDir(), "sheet.png")
	book := writeWorkbook(t)

	tc := config.Defaults().Table
	tc.Height = 120
	want, err := loadTable(book, "", tc)
	require.NoError(t, err)

	_, err = execute(t, "export", book, "--config", cfgPath, "-o", out,
		"--frozen-rows", "1", "--scroll", "40")
	require.NoError(t, err)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, int(math.Ceil(2*want.Width)), img.Bounds().Dx())
	require.Equal(t, 240, img.Bounds().Dy())
}

func TestExportCommand_BadConfig(t *testing.T) {
	cfgPath := writeConfig(t, "zoom: -3\n")
	_, err := execute(t, "export", "--config", cfgPath, "-o", filepath.Join(t.TempDir(), "x.png"))
	require.ErrorContains(t, err, "zoom")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gridpane", "config.yaml")
	cfgPath := writeConfig(t, "")

	stdout, err := execute(t, "config", "init", path, "--config", cfgPath)
	require.NoError(t, err)
	require.Equal(t, path, strings.TrimSpace(stdout))

	_, err = execute(t, "config", "init", path, "--config", cfgPath)
	require.ErrorContains(t, err, "already exists")
}
