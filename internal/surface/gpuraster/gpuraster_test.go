package gpuraster_test

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"gridpane/internal/grid"
	"gridpane/internal/surface"
	"gridpane/internal/surface/gpuraster"
	"gridpane/internal/table"
)

var red = color.NRGBA{R: 0xff, A: 0xff}

func alpha(img image.Image, x, y int) uint8 {
	_, _, _, a := img.At(x, y).RGBA()
	return uint8(a >> 8)
}

func painted(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if alpha(img, x, y) > 0 {
				n++
			}
		}
	}
	return n
}

func newSurface(t *testing.T, w, h, zoom float64) *gpuraster.Surface {
	s := gpuraster.New(w, h, zoom)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestNew_ImageSizeFollowsZoom(t *testing.T) {
	require.Equal(t, 200, newSurface(t, 100, 50, 2).Image().Bounds().Dx())
	require.Equal(t, 50, newSurface(t, 100, 50, 1).Image().Bounds().Dy())
}

func TestFillRect_TranslatedAndZoomed(t *testing.T) {
	s := newSurface(t, 50, 50, 2)
	s.SetFill(red)

	s.Save()
	s.Translate(10, 0)
	s.FillRect(0, 10, 5, 5)
	s.Restore()

	img := s.Image()
	require.Equal(t, uint8(0xff), alpha(img, 25, 25))
	require.Equal(t, uint8(0), alpha(img, 15, 25))

	s.FillRect(0, 0, 2, 2)
	require.Equal(t, uint8(0xff), alpha(s.Image(), 1, 1), "translation restored")
}

func TestClipRect(t *testing.T) {
	s := newSurface(t, 50, 50, 1)
	s.SetFill(red)

	s.Save()
	s.Translate(5, 5)
	s.ClipRect(0, 0, 10, 10)
	s.FillRect(-5, -5, 50, 50)
	s.Restore()

	img := s.Image()
	require.Equal(t, uint8(0xff), alpha(img, 10, 10))
	require.Equal(t, uint8(0), alpha(img, 2, 2))
	require.Equal(t, uint8(0), alpha(img, 20, 20))
}

func TestFillText_ClippedAtClipEdge(t *testing.T) {
	s := newSurface(t, 100, 40, 1)
	s.SetFont(surface.Font{Family: "sans", Size: 14})
	s.SetFill(red)

	s.Save()
	s.ClipRect(0, 0, 10, 40)
	s.FillText("Hello", 2, 20, 100)
	s.Restore()

	img := s.Image()
	require.Positive(t, painted(img), "the visible part of the run is drawn")
	for y := 0; y < 40; y++ {
		for x := 10; x < 100; x++ {
			require.Zero(t, alpha(img, x, y), "pixel (%d,%d) outside the clip", x, y)
		}
	}
	require.Positive(t, s.MeasureText("Hello"))
}

func TestFillText_FractionalClipKeepsContainedText(t *testing.T) {
	count := func(x float64) int {
		s := newSurface(t, 200, 60, 1)
		s.SetFont(surface.Font{Family: "sans", Size: 14})
		s.SetFill(red)
		s.Save()
		s.ClipRect(x, 0, 150.2, 60)
		s.FillText("Hi", x+5, 30, 100)
		s.Restore()
		return painted(s.Image())
	}

	base := count(0)
	require.Positive(t, base)
	for _, x := range []float64{0.1, 0.25, 0.3, 0.7} {
		require.InDelta(t, base, count(x), float64(base)/4, "clip origin %v", x)
	}
}

// textPixels counts pixels in columns [x0, x1) that differ between a render
// with cell text and one without.
func textPixels(with, without image.Image, x0, x1 int) int {
	n := 0
	b := with.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := max(x0, b.Min.X); x < min(x1, b.Max.X); x++ {
			if with.At(x, y) != without.At(x, y) {
				n++
			}
		}
	}
	return n
}

func TestRender_EveryVisibleLabelAtSubpixelCrop(t *testing.T) {
	for _, cropX := range []float64{0, 0.1, 0.25, 0.5, 12.3} {
		render := func(label string) image.Image {
			tbl := table.New(1, 3, table.WithViewport(250, 0))
			for c := 0; c < 3; c++ {
				require.NoError(t, tbl.SetCell(0, c, label))
			}
			tbl.SetCrop(cropX, 0)
			s := newSurface(t, tbl.Width, tbl.Height, 1)
			grid.Render(s, tbl, grid.Viewport{})
			return s.Image()
		}
		with, without := render("Hi"), render("")

		for c := 0; c < 3; c++ {
			x0 := int(math.Ceil(float64(c)*100 - cropX))
			x1 := int(math.Floor(float64(c+1)*100 - cropX))
			require.Positive(t, textPixels(with, without, x0, x1), "cropX %v: column %d lost its label", cropX, c)
		}
	}
}

func TestRender_GridOntoRaster(t *testing.T) {
	tbl := table.New(3, 2, table.WithHeaderRow(true))
	s := newSurface(t, tbl.Width, tbl.Height, 1)
	grid.Render(s, tbl, grid.Viewport{Theme: grid.ThemeDark})

	r, g, b, a := s.Image().At(150, 60).RGBA()
	require.Equal(t, [4]uint32{0x12, 0x12, 0x12, 0xff}, [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8})

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))
	require.NotZero(t, buf.Len())
}

func TestScrollbarUsesPaths(t *testing.T) {
	tbl := table.New(10, 2, table.WithViewport(0, 100))
	s := newSurface(t, tbl.Width, tbl.Height, 1)
	grid.Render(s, tbl, grid.Viewport{})

	sb := grid.ComputeScrollbar(tbl, grid.FontSize(tbl))
	require.True(t, sb.Visible)
	cx := int(sb.X + sb.Width/2)
	thumbR, _, _, _ := s.Image().At(cx, int(sb.ThumbY+sb.ThumbHeight/2)).RGBA()
	trackR, _, _, _ := s.Image().At(cx, int(sb.ThumbBottom()+20)).RGBA()
	require.Less(t, thumbR, trackR, "thumb is tinted over the background")
}
