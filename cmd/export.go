package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpane/internal/config"
	"gridpane/internal/export"
	"gridpane/internal/grid"
)

var exportCmd = &cobra.Command{
	Use:   "export [file.xlsx]",
	Short: "Render a table to PNG or text without the previewer",
	Long: `Render one frame of a table to a file. The viewport position is set with
--scroll, --crop-x and --crop-y; frozen panes come from the sheet unless
--frozen-rows or --frozen-cols override them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringP("output", "o", "", "output file (default: <input>.png, or table.png)")
	f.String("backend", "", "renderer: gg, gogpu or text")
	f.Float64("zoom", 0, "device pixels per content pixel")
	f.Float64("scroll", 0, "vertical scroll offset in pixels")
	f.Float64("crop-x", 0, "left crop in pixels")
	f.Float64("crop-y", 0, "top crop in pixels")
	f.Int("frozen-rows", -1, "number of frozen rows")
	f.Int("frozen-cols", -1, "number of frozen columns")

	_ = viper.BindPFlag("backend", f.Lookup("backend"))
	_ = viper.BindPFlag("zoom", f.Lookup("zoom"))

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	defer setupLogging(cmd)()

	theme, err := grid.ParseTheme(cfg.Theme)
	if err != nil {
		return err
	}
	sheet, _ := cmd.Flags().GetString("sheet")

	var source string
	if len(args) == 1 {
		source = args[0]
	}
	tbl, err := loadTable(source, sheet, cfg.Table)
	if err != nil {
		return err
	}

	f := cmd.Flags()
	if n, _ := f.GetInt("frozen-rows"); n >= 0 {
		tbl.FrozenRows = n
	}
	if n, _ := f.GetInt("frozen-cols"); n >= 0 {
		tbl.FrozenColumns = n
	}
	cropX, _ := f.GetFloat64("crop-x")
	cropY, _ := f.GetFloat64("crop-y")
	scroll, _ := f.GetFloat64("scroll")
	if cropX < 0 || cropY < 0 || scroll < 0 {
		return errors.New("--crop-x, --crop-y and --scroll must not be negative")
	}
	tbl.SetCrop(cropX, cropY)
	tbl.SetScroll(scroll)

	output, _ := f.GetString("output")
	ext := export.Extension(cfg.Backend)
	if output == "" {
		output = "table"
		if source != "" {
			output = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		}
		output, err = cfg.GetSavePath(output + ext)
		if err != nil {
			return err
		}
	}

	opts := export.Options{Backend: cfg.Backend, Theme: theme, Zoom: cfg.Zoom}
	if opts.Backend == "" {
		opts.Backend = config.BackendGG
	}
	if err := export.File(output, tbl, opts); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), output)
	return nil
}
