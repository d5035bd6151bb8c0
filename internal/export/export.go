// Package export renders tables to files: PNG through one of the raster
// backends, or a plain-text rendering through the terminal surface.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gridpane/internal/config"
	"gridpane/internal/grid"
	"gridpane/internal/log"
	"gridpane/internal/surface"
	"gridpane/internal/surface/ggraster"
	"gridpane/internal/surface/gpuraster"
	"gridpane/internal/surface/term"
	"gridpane/internal/table"
)

// ErrUnknownBackend is returned for a backend name export cannot build.
var ErrUnknownBackend = errors.New("unknown backend")

// Options controls an export.
type Options struct {
	Backend string // config.BackendGG (default), config.BackendGoGPU or config.BackendText
	Theme   grid.Theme
	Zoom    float64
}

// raster is what both image backends offer on top of surface.Surface.
type raster interface {
	surface.Surface
	Clear(c color.Color)
	Image() image.Image
	EncodePNG(w io.Writer) error
}

func newRaster(backend string, w, h, zoom float64) (raster, func(), error) {
	switch backend {
	case config.BackendGG, "":
		return ggraster.New(w, h, zoom), func() {}, nil
	case config.BackendGoGPU:
		s := gpuraster.New(w, h, zoom)
		return s, func() {
			if err := s.Close(); err != nil {
				log.Warn(log.CatSurface, "close gogpu surface", "error", err)
			}
		}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// Image renders t with a raster backend and returns the image.
func Image(t *table.Table, opts Options) (image.Image, error) {
	s, done, err := newRaster(opts.Backend, t.Width, t.Height, opts.Zoom)
	if err != nil {
		return nil, err
	}
	defer done()

	s.Clear(grid.PaletteFor(opts.Theme).Background)
	grid.Render(s, t, grid.Viewport{Theme: opts.Theme, Zoom: opts.Zoom})
	return s.Image(), nil
}

// WritePNG renders t and encodes the PNG to w.
func WritePNG(w io.Writer, t *table.Table, opts Options) error {
	s, done, err := newRaster(opts.Backend, t.Width, t.Height, opts.Zoom)
	if err != nil {
		return err
	}
	defer done()

	s.Clear(grid.PaletteFor(opts.Theme).Background)
	grid.Render(s, t, grid.Viewport{Theme: opts.Theme, Zoom: opts.Zoom})
	return s.EncodePNG(w)
}

// Text renders t onto a character grid and returns its lines.
func Text(t *table.Table, theme grid.Theme) string {
	s := term.New(t.Width, t.Height)
	grid.Render(s, t, grid.Viewport{Theme: theme, Zoom: 1})
	return s.Plain()
}

// WriteText writes the plain-text rendering of t to w, one line per row.
func WriteText(w io.Writer, t *table.Table, theme grid.Theme) error {
	bw := bufio.NewWriter(w)
	for _, line := range strings.Split(Text(t, theme), "\n") {
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// File writes t to path. The text backend writes a .txt rendering; the
// raster backends write a PNG.
func File(path string, t *table.Table, opts Options) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if opts.Backend == config.BackendText {
		err = WriteText(file, t, opts.Theme)
	} else {
		err = WritePNG(file, t, opts)
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("export %s: %w", path, err)
	}

	log.Info(log.CatRender, "Exported table",
		"path", path,
		"backend", opts.Backend,
		"zoom", opts.Zoom,
		"size", fmt.Sprintf("%gx%g", t.Width, t.Height))
	return nil
}

// WithExtension appends ext to name unless it already ends with it.
func WithExtension(name, ext string) string {
	if strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return name + ext
}

// Extension is the file extension for a backend.
func Extension(backend string) string {
	if backend == config.BackendText {
		return ".txt"
	}
	return ".png"
}
