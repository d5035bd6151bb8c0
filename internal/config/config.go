// Package config provides configuration types and defaults for gridpane.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"gridpane/internal/log"
	"gridpane/internal/table"
)

// Render backends selectable for export.
const (
	BackendGG    = "gg"
	BackendGoGPU = "gogpu"
	BackendText  = "text"
)

// Config holds all configuration options for gridpane.
type Config struct {
	Theme         string      `mapstructure:"theme"`   // "light" (default) or "dark"
	Backend       string      `mapstructure:"backend"` // "gg" (default), "gogpu" or "text"
	Zoom          float64     `mapstructure:"zoom"`
	SaveDirectory string      `mapstructure:"save_directory"`
	Confirmations bool        `mapstructure:"confirmations"`
	Table         TableConfig `mapstructure:"table"`
}

// TableConfig seeds new tables.
type TableConfig struct {
	Rows          int     `mapstructure:"rows"`
	Columns       int     `mapstructure:"columns"`
	CellWidth     float64 `mapstructure:"cell_width"`
	CellHeight    float64 `mapstructure:"cell_height"`
	HeaderRow     bool    `mapstructure:"header_row"`
	FrozenRows    int     `mapstructure:"frozen_rows"`
	FrozenColumns int     `mapstructure:"frozen_columns"`
	Width         float64 `mapstructure:"width"`  // viewport cap, 0 = content size
	Height        float64 `mapstructure:"height"` // viewport cap, 0 = content size
	FontFamily    string  `mapstructure:"font_family"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Theme:         "light",
		Backend:       BackendGG,
		Zoom:          1,
		Confirmations: true,
		Table: TableConfig{
			Rows:       table.DefaultRows,
			Columns:    table.DefaultColumns,
			CellWidth:  table.DefaultColumnWidth,
			CellHeight: table.DefaultRowHeight,
			HeaderRow:  true,
			FontFamily: table.DefaultFontFamily,
		},
	}
}

// SetDefaults registers Defaults() with v so unset keys fall back to them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("theme", d.Theme)
	v.SetDefault("backend", d.Backend)
	v.SetDefault("zoom", d.Zoom)
	v.SetDefault("save_directory", d.SaveDirectory)
	v.SetDefault("confirmations", d.Confirmations)
	v.SetDefault("table.rows", d.Table.Rows)
	v.SetDefault("table.columns", d.Table.Columns)
	v.SetDefault("table.cell_width", d.Table.CellWidth)
	v.SetDefault("table.cell_height", d.Table.CellHeight)
	v.SetDefault("table.header_row", d.Table.HeaderRow)
	v.SetDefault("table.frozen_rows", d.Table.FrozenRows)
	v.SetDefault("table.frozen_columns", d.Table.FrozenColumns)
	v.SetDefault("table.width", d.Table.Width)
	v.SetDefault("table.height", d.Table.Height)
	v.SetDefault("table.font_family", d.Table.FontFamily)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	log.Debug(log.CatConfig, "Loaded config", "file", v.ConfigFileUsed(), "theme", cfg.Theme, "backend", cfg.Backend)
	return cfg, nil
}

// Validate reports the first invalid field.
func Validate(c Config) error {
	switch strings.ToLower(c.Theme) {
	case "light", "dark", "":
	default:
		return fmt.Errorf("theme: must be light or dark, got %q", c.Theme)
	}
	switch c.Backend {
	case BackendGG, BackendGoGPU, BackendText, "":
	default:
		return fmt.Errorf("backend: must be %s, %s or %s, got %q", BackendGG, BackendGoGPU, BackendText, c.Backend)
	}
	if c.Zoom <= 0 {
		return fmt.Errorf("zoom: must be positive, got %v", c.Zoom)
	}
	return ValidateTable(c.Table)
}

// ValidateTable checks the table seed settings.
func ValidateTable(t TableConfig) error {
	if t.Rows < 1 {
		return fmt.Errorf("table.rows: must be at least 1, got %d", t.Rows)
	}
	if t.Columns < 1 {
		return fmt.Errorf("table.columns: must be at least 1, got %d", t.Columns)
	}
	if t.CellWidth <= 0 {
		return fmt.Errorf("table.cell_width: must be positive, got %v", t.CellWidth)
	}
	if t.CellHeight <= 0 {
		return fmt.Errorf("table.cell_height: must be positive, got %v", t.CellHeight)
	}
	if t.FrozenRows < 0 || t.FrozenColumns < 0 {
		return fmt.Errorf("table.frozen_rows/frozen_columns: must not be negative")
	}
	if t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("table.width/height: must not be negative")
	}
	return nil
}

// Options converts the seed settings into table options.
func (t TableConfig) Options() []table.Option {
	opts := []table.Option{
		table.WithCellSize(t.CellWidth, t.CellHeight),
		table.WithHeaderRow(t.HeaderRow),
		table.WithFrozen(t.FrozenRows, t.FrozenColumns),
		table.WithViewport(t.Width, t.Height),
	}
	if t.FontFamily != "" {
		opts = append(opts, table.WithFontFamily(t.FontFamily))
	}
	return opts
}

// NewTable builds an empty table from the seed settings.
func (t TableConfig) NewTable() *table.Table {
	return table.New(t.Rows, t.Columns, t.Options()...)
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path
}

// GetSavePath places filename in the save directory, creating it if needed.
// Without a save directory the filename is returned unchanged.
func (c Config) GetSavePath(filename string) (string, error) {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename, nil
	}
	dir := ExpandPath(c.SaveDirectory)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating save directory: %w", err)
	}
	return filepath.Join(dir, filename), nil
}

// DefaultConfigPath is the user-level config file.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "gridpane", "config.yaml")
	}
	return filepath.Join(home, ".config", "gridpane", "config.yaml")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# gridpane configuration

# Palette: light or dark
theme: light

# Export backend: gg, gogpu or text
backend: gg

# Device pixels per content pixel for raster export
zoom: 1

# Directory for exported files (default: current directory)
# save_directory: ~/Pictures/gridpane

# Ask before deleting rows/columns and before quitting
confirmations: true

# Seed for new tables
table:
  rows: 3
  columns: 3
  cell_width: 100
  cell_height: 36
  header_row: true
  frozen_rows: 0
  frozen_columns: 0
  # width: 0     # viewport cap, 0 = content size
  # height: 0
  font_family: sans
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
