// Package ingestion extracts plain text from uploaded résumé files.
package ingestion

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported file extensions.
const (
	FormatPDF  = "pdf"
	FormatDocx = "docx"
	FormatTXT  = "txt"
	FormatHTML = "html"
	FormatHTM  = "htm"
)

// SupportedFormats lists the extensions ExtractText accepts.
func SupportedFormats() []string {
	return []string{FormatPDF, FormatDocx, FormatTXT, FormatHTML, FormatHTM}
}

// FormatOf returns the lower-cased extension of filename without the dot.
func FormatOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// ExtractText reads the text of data, choosing the parser by the extension of
// filename. The result is passed through CleanText; an empty result is
// ErrNoTextExtracted.
func ExtractText(filename string, data []byte) (string, error) {
	format := FormatOf(filename)

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = extractPDF(data)
	case FormatDocx:
		text, err = extractDocx(data)
	case FormatTXT:
		text = decodeText(data)
	case FormatHTML, FormatHTM:
		text, err = extractHTML(data)
	default:
		return "", &UnsupportedFileTypeError{Ext: format, Supported: SupportedFormats()}
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", ErrNoTextExtracted
	}
	return text, nil
}

func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}

func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ExtractionError{Format: FormatPDF, Message: fmt.Sprintf("parser panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "failed to read pdf", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Format: FormatPDF, Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDocx, Message: "failed to parse docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	text, err := documentXMLText(doc.Editable().GetContent())
	if err != nil {
		return "", &ExtractionError{Format: FormatDocx, Message: "failed to read document.xml", Cause: err}
	}
	return text, nil
}

// documentXMLText flattens WordprocessingML to text: one line per w:p, and
// inside runs w:tab as a tab and w:br as a newline.
func documentXMLText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var sb strings.Builder
	inRun, inText := false, false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "r":
				inRun = true
			case "t":
				inText = true
			case "tab":
				if inRun {
					sb.WriteString("\t")
				}
			case "br", "cr":
				if inRun {
					sb.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "r":
				inRun = false
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Format: FormatHTML, Message: "failed to parse HTML", Cause: err}
	}

	doc.Find("head, script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("h1").PrependHtml("# ")
	doc.Find("h2").PrependHtml("## ")
	doc.Find("h3").PrependHtml("### ")
	doc.Find("li").PrependHtml("- ")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, ul, ol, table").AppendHtml("\n")

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		lines = append(lines, strings.Join(strings.Fields(line), " "))
	}
	return strings.Join(lines, "\n"), nil
}
