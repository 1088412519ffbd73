package rendering

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-ats/internal/markdown"
)

// Renderer is an export backend over a prepared document.
type Renderer interface {
	Render(doc *markdown.Document, photo *Photo) ([]byte, error)
	ContentType() string
	Extension() string
}

// Supported export formats.
const (
	FormatPDF  = "pdf"
	FormatDocx = "docx"
)

// ForFormat returns the backend for "pdf" or "docx".
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPDF:
		return NewPDFRenderer(), nil
	case FormatDocx:
		return NewDocxRenderer(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// RenderMarkdown prepares md and renders it with r.
func RenderMarkdown(r Renderer, md string, photo *Photo) ([]byte, error) {
	return r.Render(markdown.Prepare(md), photo)
}

// Filename builds the attachment name for stem, falling back to "CV" and
// dropping characters that would break a Content-Disposition header.
func Filename(stem string, r Renderer) string {
	stem = strings.Map(func(c rune) rune {
		switch c {
		case '"', '\\', '/', '\r', '\n':
			return -1
		}
		return c
	}, strings.TrimSpace(stem))
	if stem == "" {
		stem = "CV"
	}
	return stem + "." + r.Extension()
}
