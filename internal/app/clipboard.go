package app

import (
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard is the system clipboard as the previewer uses it.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

// ReadAll prefers plain text on macOS, where rich copies from spreadsheet
// apps otherwise arrive as RTF.
func (systemClipboard) ReadAll() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") ||
			strings.Contains(text, "<div") || strings.Contains(text, "<table"))
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// extractTextFromRTF keeps the text runs of an RTF document. \par, \line,
// \row and \cell become newlines and tabs so copied table ranges keep their
// shape.
func extractTextFromRTF(rtf string) string {
	var result strings.Builder
	result.Grow(len(rtf))
	src := []byte(rtf)

	for i := 0; i < len(src); i++ {
		b := src[i]
		switch {
		case b == '{' || b == '}':
			continue
		case b == '\r' || b == '\n':
			// Raw line breaks are formatting in RTF.
			continue
		case b != '\\':
			if b >= 32 {
				result.WriteByte(b)
			}
			continue
		}

		if i+1 >= len(src) {
			break
		}
		next := src[i+1]
		switch {
		case next == '\'' && i+3 < len(src):
			if val, err := strconv.ParseUint(string(src[i+2:i+4]), 16, 8); err == nil {
				result.WriteByte(byte(val))
			}
			i += 3
		case next == '\\' || next == '{' || next == '}':
			result.WriteByte(next)
			i++
		case next == '~':
			result.WriteByte(' ')
			i++
		case next == '-' || next == '_':
			result.WriteByte('-')
			i++
		case isLetter(next):
			start := i + 1
			j := start
			for j < len(src) && isLetter(src[j]) {
				j++
			}
			word := string(src[start:j])
			for j < len(src) && (src[j] == '-' || (src[j] >= '0' && src[j] <= '9')) {
				j++
			}
			if j < len(src) && src[j] == ' ' {
				j++
			}
			i = j - 1
			switch word {
			case "par", "line", "row":
				result.WriteByte('\n')
			case "tab", "cell":
				result.WriteByte('\t')
			}
		default:
			i++
		}
	}
	return result.String()
}

// extractTextFromHTML drops tags and decodes entities. Row and cell ends
// become newlines and tabs.
func extractTextFromHTML(doc string) string {
	var result strings.Builder
	result.Grow(len(doc))
	inTag := false
	var tag strings.Builder
	for _, r := range doc {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			switch tagName(tag.String()) {
			case "/tr", "br", "br/", "/p", "/div":
				result.WriteByte('\n')
			case "/td", "/th":
				result.WriteByte('\t')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}
	return html.UnescapeString(result.String())
}

func tagName(tag string) string {
	fields := strings.Fields(tag)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// cleanClipboardText converts rich clipboard content to plain text, drops
// control characters other than tab and newline, and normalizes line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// parseBlock splits clipboard text into rows of tab-separated cells. Cell
// text is trimmed of spaces; cell-level newlines are not supported, so each
// line is one row. A single trailing newline does not add an empty row.
func parseBlock(text string) [][]string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	block := make([][]string, len(lines))
	for i, line := range lines {
		cells := strings.Split(line, "\t")
		for j := range cells {
			cells[j] = strings.TrimSpace(cells[j])
		}
		block[i] = cells
	}
	return block
}
