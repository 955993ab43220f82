// Package ingest turns uploaded documents into the HTML the auditor works on.
package ingest

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/arishali16742/SOW/internal/domain/document"
)

// Converter picks a format by file extension.
type Converter struct {
	// MaxPages bounds PDF extraction; zero means every page.
	MaxPages int
}

func NewConverter() *Converter {
	return &Converter{}
}

// Extensions lists the accepted file types.
var Extensions = []string{".docx", ".pdf", ".html", ".htm", ".txt"}

// Supported reports whether fileName has an accepted extension.
func Supported(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (c *Converter) Convert(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var (
		out string
		err error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		out, err = DocxToHTML(ctx, data)
	case ".pdf":
		out, err = PDFToHTML(ctx, data, c.MaxPages)
	case ".html", ".htm":
		out = string(data)
	case ".txt":
		out = TextToHTML(string(data))
	default:
		return "", fmt.Errorf("%w: %s", document.ErrUnsupportedFormat, filepath.Ext(fileName))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", document.ErrIngestionFailure, fileName, err)
	}
	return out, nil
}

// TextToHTML wraps each non-blank line in a paragraph.
func TextToHTML(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}
