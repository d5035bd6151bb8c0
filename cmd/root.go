package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gridpane/internal/app"
	"gridpane/internal/config"
	"gridpane/internal/grid"
	"gridpane/internal/log"
	"gridpane/internal/table"
	"gridpane/internal/watcher"
	"gridpane/internal/xlsximport"
)

func init() {
	// Query the terminal background before bubbletea owns stdin so the OSC 11
	// reply does not leak into the input loop.
	_ = lipgloss.HasDarkBackground()
}

const localConfigFile = ".gridpane.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "gridpane [file.xlsx]",
	Short: "Preview tables with frozen panes",
	Long: `gridpane renders a table with frozen header rows and columns, a cropped
viewport and a scrollbar. Open a spreadsheet sheet or start from an empty
table, then scroll, freeze, edit and export it.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runApp,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./"+localConfigFile+" or ~/.config/gridpane/config.yaml)")
	rootCmd.PersistentFlags().String("theme", "", "palette: light or dark")
	rootCmd.PersistentFlags().String("sheet", "", "sheet to open (default: the active sheet)")
	rootCmd.PersistentFlags().Bool("debug", false, "write a debug log to gridpane-debug.log")
	rootCmd.Flags().BoolP("watch", "w", false, "reload the file when it changes on disk")

	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .gridpane.yaml (current directory)
		// 2. ~/.config/gridpane/config.yaml (user config)
		if _, err := os.Stat(localConfigFile); err == nil {
			viper.SetConfigFile(localConfigFile)
		} else {
			viper.AddConfigPath(filepath.Dir(config.DefaultConfigPath()))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			cfgErr = fmt.Errorf("reading config: %w", err)
			return
		}
		// No config file anywhere: run on defaults.
	}

	cfg, cfgErr = config.Load(viper.GetViper())
}

// setupLogging honors --debug. The returned cleanup is always safe to call.
func setupLogging(cmd *cobra.Command) func() {
	if debug, _ := cmd.Flags().GetBool("debug"); !debug {
		return func() {}
	}
	cleanup, err := log.InitWithTeaLog("gridpane-debug.log", "gridpane")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: debug log disabled: %v\n", err)
		return func() {}
	}
	return cleanup
}

// loadTable opens sheet of the workbook at path, or builds an empty table
// from the config seed when path is empty. The seed's viewport caps and font
// apply to imported sheets too.
func loadTable(path, sheet string, tc config.TableConfig) (*table.Table, error) {
	if path == "" {
		return tc.NewTable(), nil
	}
	res, err := xlsximport.Open(path, xlsximport.Options{Sheet: sheet, HeaderRow: tc.HeaderRow})
	if err != nil {
		return nil, err
	}
	opts := []table.Option{table.WithViewport(tc.Width, tc.Height)}
	if tc.FontFamily != "" {
		opts = append(opts, table.WithFontFamily(tc.FontFamily))
	}
	return res.Table(opts...)
}

func runApp(cmd *cobra.Command, args []string) error {
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

	opts := app.Options{
		Config: cfg,
		Table:  tbl,
		Theme:  theme,
		Source: source,
	}

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		if source == "" {
			return errors.New("--watch needs a file to watch")
		}
		w, err := watcher.New(watcher.DefaultConfig(source))
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		changes, err := w.Start()
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer func() { _ = w.Stop() }()

		opts.Changes = changes
		opts.Reload = func() (*table.Table, error) {
			return loadTable(source, sheet, cfg.Table)
		}
	}

	log.Info(log.CatUI, "Starting previewer", "source", source, "rows", tbl.Rows, "columns", tbl.Columns)
	p := tea.NewProgram(
		app.New(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
