package pdf

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"
)

// ExtractText returns the text of a PDF, one output line per text line on the page.
func ExtractText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return "", err
	}
	r, err := pdf.NewReader(f, fi.Size())
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		lastY := math.NaN()
		for _, t := range p.Content().Text {
			if !math.IsNaN(lastY) && math.Abs(t.Y-lastY) > 1 {
				sb.WriteString("\n")
			}
			lastY = t.Y
			// some fonts emit NUL bytes
			sb.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// ReadText reads PDFs with ExtractText and everything else as plain text.
func ReadText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return ExtractText(path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FactLines splits text into facts: one per non-empty line, inner whitespace collapsed.
func FactLines(text string) []string {
	text = strings.ReplaceAll(text, "\r", "\n")
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(strings.ReplaceAll(line, "\t", " ")), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
