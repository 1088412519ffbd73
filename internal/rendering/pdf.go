package rendering

import (
	"bytes"
	"context"

	"github.com/jung-kurt/gofpdf"

	"github.com/jonathan/cv-ats/internal/markdown"
)

const (
	fontFamily = "Helvetica"
	photoName  = "photo"
)

// PDFRenderer draws a document on Letter pages with the core Helvetica fonts.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// ContentType implements Renderer.
func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Extension implements Renderer.
func (r *PDFRenderer) Extension() string {
	return "pdf"
}

// fpdfMeasurer measures strings with the metrics of the fonts the PDF uses,
// after the same cp1252 translation applied when drawing.
type fpdfMeasurer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (m *fpdfMeasurer) Width(text string, bold bool, size float64) float64 {
	m.pdf.SetFont(fontFamily, fontStyle(bold), size)
	return m.pdf.GetStringWidth(m.tr(text))
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

func newFpdf() *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(PageMargin, PageMargin, PageMargin)
	pdf.SetAutoPageBreak(false, PageMargin)
	pdf.SetCreator("cv-ats", true)
	return pdf
}

// registerPhoto embeds the photo under photoName. gofpdf rejects some valid
// files (16-bit or interlaced PNG, for one); those are re-encoded as 8-bit PNG
// and registered again.
func registerPhoto(pdf *gofpdf.Fpdf, opts *gofpdf.ImageOptions, photo *Photo) error {
	pdf.RegisterImageOptionsReader(photoName, *opts, bytes.NewReader(photo.Data))
	if pdf.Error() == nil {
		return nil
	}
	pdf.ClearError()

	data, err := ImageTranscoder{}.ToPNG(context.Background(), photo.Data)
	if err != nil {
		return &PhotoError{MIME: photo.MIME, Err: ErrUnsupportedPhotoFormat}
	}
	opts.ImageType = "PNG"
	pdf.RegisterImageOptionsReader(photoName, *opts, bytes.NewReader(data))
	if pdf.Error() != nil {
		return &PhotoError{MIME: photo.MIME, Err: ErrUnsupportedPhotoFormat}
	}
	return nil
}

// Render implements Renderer. The photo must be PNG or JPEG; convert other
// formats with PreparePhoto first.
func (r *PDFRenderer) Render(doc *markdown.Document, photo *Photo) ([]byte, error) {
	pdf := newFpdf()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	var imgOpts gofpdf.ImageOptions
	if photo != nil {
		switch photo.MIME {
		case MIMEPNG:
			imgOpts.ImageType = "PNG"
		case MIMEJPEG:
			imgOpts.ImageType = "JPG"
		default:
			return nil, &PhotoError{MIME: photo.MIME, Err: ErrUnsupportedPhotoFormat}
		}
		if err := registerPhoto(pdf, &imgOpts, photo); err != nil {
			return nil, err
		}
	}

	layout := LayoutPDF(doc, photo != nil, &fpdfMeasurer{pdf: pdf, tr: tr})

	pdf.SetTextColor(0, 0, 0)
	for _, page := range layout.Pages {
		pdf.AddPage()
		for _, op := range page.Ops {
			if op.Kind == OpPhoto {
				pdf.ImageOptions(photoName, op.X, op.Y, op.W, op.H, false, imgOpts, 0, "")
				continue
			}
			pdf.SetFont(fontFamily, fontStyle(op.Bold), op.Size)
			pdf.Text(op.X, op.Y, tr(op.Text))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Format: "pdf", Message: "failed to write pdf", Cause: err}
	}
	return buf.Bytes(), nil
}
