package grid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"gridpane/internal/surface/record"
)

func fixed() *record.Recorder {
	return record.New(record.WithMeasure(record.FixedAdvance(8)))
}

func TestTruncate(t *testing.T) {
	m := fixed()

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     string
	}{
		{"fits", "abc", 24, "abc"},
		{"exact ellipsis fit", "Excalidraw", 24, "Ex…"},
		{"one cell", "Excalidraw", 8, "…"},
		{"nothing fits", "Excalidraw", 4, "…"},
		{"empty", "", 0, ""},
		{"combining marks stay attached", "e\u0301e\u0301e\u0301", 16, "e\u0301…"},
		{"wide runes", "表格表格", 40, "表格…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Truncate(m, tt.text, tt.maxWidth))
		})
	}
}

func TestTruncate_Property(t *testing.T) {
	m := fixed()
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 表é]{0,30}`).Draw(t, "text")
		maxWidth := rapid.Float64Range(0, 300).Draw(t, "max")

		got := Truncate(m, text, maxWidth)
		if got == text {
			if m.MeasureText(text) > maxWidth {
				t.Fatalf("%q returned unchanged but overflows %v", text, maxWidth)
			}
			return
		}
		if !strings.HasSuffix(got, Ellipsis) {
			t.Fatalf("truncated %q lacks ellipsis: %q", text, got)
		}
		if !strings.HasPrefix(text, strings.TrimSuffix(got, Ellipsis)) {
			t.Fatalf("%q is not a prefix of %q", got, text)
		}
		if got != Ellipsis && m.MeasureText(got) > maxWidth {
			t.Fatalf("%q overflows %v", got, maxWidth)
		}
	})
}
