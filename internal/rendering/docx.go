package rendering

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"

	"github.com/jonathan/cv-ats/internal/markdown"
)

//go:embed docxtmpl/*
var docxFS embed.FS

const (
	// nameHalfPoints is the name run size in half-points (17pt).
	nameHalfPoints = 34

	docxPhotoPoints = 110
	emuPerPoint     = 12700

	// Letter width minus 1in margins, in twentieths of a point.
	docxContentTwips = 12240 - 2*1440

	leftColumnPct  = 72
	rightColumnPct = 28

	photoRelID = "rId3"
)

var docxTemplates = template.Must(
	template.New("docx").
		Funcs(template.FuncMap{"xml": escapeXML}).
		ParseFS(docxFS, "docxtmpl/*.tmpl"),
)

// staticParts maps package paths to the embedded files copied verbatim.
var staticParts = []struct {
	path string
	file string
}{
	{"[Content_Types].xml", "docxtmpl/content_types.xml"},
	{"_rels/.rels", "docxtmpl/rels.xml"},
	{"word/styles.xml", "docxtmpl/styles.xml"},
	{"word/numbering.xml", "docxtmpl/numbering.xml"},
}

func escapeXML(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

type docxRun struct {
	Text string
	Bold bool
	Size int
}

type docxParagraph struct {
	Style  string
	Bullet bool
	Empty  bool
	Run    docxRun
}

type docxImage struct {
	RelID string
	File  string
	EMU   int
}

type docxData struct {
	Name       docxRun
	Contact    []docxRun
	Paragraphs []docxParagraph
	Photo      *docxImage

	LeftPct    int
	RightPct   int
	LeftTwips  int
	RightTwips int
}

// DocxRenderer writes an Office Open XML word-processing package.
type DocxRenderer struct{}

// NewDocxRenderer creates a DocxRenderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// ContentType implements Renderer.
func (r *DocxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

// Extension implements Renderer.
func (r *DocxRenderer) Extension() string {
	return "docx"
}

// paragraphsFor maps each block to exactly one paragraph.
func paragraphsFor(blocks []markdown.Block) []docxParagraph {
	out := make([]docxParagraph, 0, len(blocks))
	for _, b := range blocks {
		switch b.Kind {
		case markdown.BlockBlank:
			out = append(out, docxParagraph{Empty: true})
		case markdown.BlockHeading:
			level := b.Level
			if level < 1 || level > 3 {
				level = 3
			}
			out = append(out, docxParagraph{Style: fmt.Sprintf("Heading%d", level), Run: docxRun{Text: b.Text}})
		case markdown.BlockBullet:
			out = append(out, docxParagraph{Style: "ListParagraph", Bullet: true, Run: docxRun{Text: b.Text}})
		default:
			out = append(out, docxParagraph{Run: docxRun{Text: b.Text}})
		}
	}
	return out
}

func buildDocxData(doc *markdown.Document, photo *Photo) *docxData {
	name := doc.Name
	if strings.TrimSpace(name) == "" {
		name = markdown.PlaceholderName
	}

	data := &docxData{
		Name:       docxRun{Text: name, Bold: true, Size: nameHalfPoints},
		Paragraphs: paragraphsFor(doc.Blocks),
		LeftPct:    leftColumnPct * 50,
		RightPct:   rightColumnPct * 50,
		LeftTwips:  docxContentTwips * leftColumnPct / 100,
		RightTwips: docxContentTwips * rightColumnPct / 100,
	}
	for _, c := range doc.Contact {
		data.Contact = append(data.Contact, docxRun{Text: c})
	}
	if photo != nil {
		data.Photo = &docxImage{
			RelID: photoRelID,
			File:  "photo." + photoExt(photo),
			EMU:   docxPhotoPoints * emuPerPoint,
		}
	}
	return data
}

func photoExt(p *Photo) string {
	if p.IsPNG() {
		return "png"
	}
	return "jpg"
}

// Render implements Renderer. The photo must be PNG or JPEG; convert other
// formats with PreparePhoto first.
func (r *DocxRenderer) Render(doc *markdown.Document, photo *Photo) ([]byte, error) {
	if photo != nil && photo.MIME != MIMEPNG && photo.MIME != MIMEJPEG {
		return nil, &PhotoError{MIME: photo.MIME, Err: ErrUnsupportedPhotoFormat}
	}

	data := buildDocxData(doc, photo)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, part := range staticParts {
		content, err := docxFS.ReadFile(part.file)
		if err != nil {
			return nil, &RenderError{Format: "docx", Message: "missing embedded part " + part.file, Cause: err}
		}
		if err := writeZipEntry(zw, part.path, content); err != nil {
			return nil, err
		}
	}

	templated := []struct {
		path string
		name string
	}{
		{"word/_rels/document.xml.rels", "document.xml.rels.tmpl"},
		{"word/document.xml", "document.xml.tmpl"},
	}
	for _, part := range templated {
		var out bytes.Buffer
		if err := docxTemplates.ExecuteTemplate(&out, part.name, data); err != nil {
			return nil, &RenderError{Format: "docx", Message: "failed to execute " + part.name, Cause: err}
		}
		if err := writeZipEntry(zw, part.path, out.Bytes()); err != nil {
			return nil, err
		}
	}

	if data.Photo != nil {
		if err := writeZipEntry(zw, "word/media/"+data.Photo.File, photo.Data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, &RenderError{Format: "docx", Message: "failed to finalize package", Cause: err}
	}
	return buf.Bytes(), nil
}

func writeZipEntry(zw *zip.Writer, path string, content []byte) error {
	w, err := zw.Create(path)
	if err != nil {
		return &RenderError{Format: "docx", Message: "failed to create " + path, Cause: err}
	}
	if _, err := w.Write(content); err != nil {
		return &RenderError{Format: "docx", Message: "failed to write " + path, Cause: err}
	}
	return nil
}
