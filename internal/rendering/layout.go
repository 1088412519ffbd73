package rendering

import (
	"strings"

	"github.com/jonathan/cv-ats/internal/markdown"
)

// Page geometry in points. Y coordinates in a Layout grow downwards from the
// top edge of the page.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
	PageMargin = 48.0

	contentWidth = PageWidth - 2*PageMargin

	nameSize    = 18.0
	contactSize = 11.0
	bodySize    = 11.0

	pdfPhotoSize = 90.0
	photoGap     = 12.0

	headerMinHeightPhoto = 110.0
	headerMinHeight      = 60.0
	headerBodyGap        = 12.0

	bulletIndent     = 12.0
	blankAdvance     = 6.0
	headingLookahead = 2.0
	lineLeading      = 4.0
	contactLeading   = 3.0

	maxContactLines = 2
)

var headingSizes = map[int]float64{1: 16, 2: 13, 3: 12}

// OpKind identifies what a DrawOp paints.
type OpKind string

// Draw operation kinds.
const (
	OpName      OpKind = "name"
	OpContact   OpKind = "contact"
	OpPhoto     OpKind = "photo"
	OpHeading   OpKind = "heading"
	OpBullet    OpKind = "bullet"
	OpParagraph OpKind = "paragraph"
)

// DrawOp is one positioned element. For text, Y is the baseline; for the
// photo, Y is the top edge and W/H give the box.
type DrawOp struct {
	Kind OpKind
	Text string
	X    float64
	Y    float64
	Size float64
	Bold bool
	W    float64
	H    float64
}

// Page holds the operations painted on one page, in order.
type Page struct {
	Ops []DrawOp
}

// Layout is a paginated, fully positioned document.
type Layout struct {
	Pages []Page
}

// Measurer reports the rendered width of text in points.
type Measurer interface {
	Width(text string, bold bool, size float64) float64
}

// WrapText greedily packs whitespace-separated words into lines no wider than
// maxWidth. A single word wider than maxWidth gets a line of its own.
func WrapText(text string, maxWidth float64, bold bool, size float64, m Measurer) []string {
	var lines []string
	cur := ""
	for _, w := range strings.Fields(text) {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if m.Width(next, bold, size) > maxWidth {
			if cur != "" {
				lines = append(lines, cur)
			}
			cur = w
			continue
		}
		cur = next
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

type cursor struct {
	layout *Layout
	y      float64
}

func (c *cursor) page() *Page {
	return &c.layout.Pages[len(c.layout.Pages)-1]
}

func (c *cursor) newPage() {
	c.layout.Pages = append(c.layout.Pages, Page{})
	c.y = PageMargin
}

func (c *cursor) breakIfPastBottom() {
	if c.y > PageHeight-PageMargin {
		c.newPage()
	}
}

func (c *cursor) add(op DrawOp) {
	p := c.page()
	p.Ops = append(p.Ops, op)
}

// line draws one body line at the cursor, advances it and breaks the page
// when the cursor passes the bottom margin.
func (c *cursor) line(kind OpKind, text string, bold bool, size float64) {
	c.add(DrawOp{Kind: kind, Text: text, X: PageMargin, Y: c.y, Size: size, Bold: bold})
	c.y += size + lineLeading
	c.breakIfPastBottom()
}

// LayoutPDF positions the header, photo box and body blocks of doc on Letter
// pages.
func LayoutPDF(doc *markdown.Document, hasPhoto bool, m Measurer) *Layout {
	c := &cursor{layout: &Layout{}}
	c.newPage()

	headerWidth := contentWidth
	photoX := 0.0
	if hasPhoto {
		photoX = PageWidth - PageMargin - pdfPhotoSize
		headerWidth = photoX - PageMargin - photoGap
	}

	name := doc.Name
	if strings.TrimSpace(name) == "" {
		name = markdown.PlaceholderName
	}
	for _, l := range WrapText(name, headerWidth, true, nameSize, m) {
		c.add(DrawOp{Kind: OpName, Text: l, X: PageMargin, Y: c.y, Size: nameSize, Bold: true})
		c.y += nameSize + lineLeading
	}

	contact := doc.Contact
	if len(contact) > maxContactLines {
		contact = contact[:maxContactLines]
	}
	for _, line := range contact {
		for _, l := range WrapText(line, headerWidth, false, contactSize, m) {
			c.add(DrawOp{Kind: OpContact, Text: l, X: PageMargin, Y: c.y, Size: contactSize})
			c.y += contactSize + contactLeading
		}
	}

	minHeight := headerMinHeight
	if hasPhoto {
		c.add(DrawOp{Kind: OpPhoto, X: photoX, Y: PageMargin, W: pdfPhotoSize, H: pdfPhotoSize})
		minHeight = headerMinHeightPhoto
	}
	if bottom := PageMargin + minHeight; c.y < bottom {
		c.y = bottom
	}
	c.y += headerBodyGap

	for _, b := range doc.Blocks {
		switch b.Kind {
		case markdown.BlockBlank:
			c.y += blankAdvance
			c.breakIfPastBottom()

		case markdown.BlockHeading:
			size, ok := headingSizes[b.Level]
			if !ok {
				size = headingSizes[3]
			}
			c.y += headingLookahead
			c.breakIfPastBottom()
			c.line(OpHeading, b.Text, true, size)

		case markdown.BlockBullet:
			for i, l := range WrapText(b.Text, contentWidth-bulletIndent, false, bodySize, m) {
				prefix := "  "
				if i == 0 {
					prefix = "• "
				}
				c.line(OpBullet, prefix+l, false, bodySize)
			}

		default:
			for _, l := range WrapText(b.Text, contentWidth, false, bodySize, m) {
				c.line(OpParagraph, l, false, bodySize)
			}
		}
	}

	// A break triggered by the very last line leaves an empty trailing page.
	if n := len(c.layout.Pages); n > 1 && len(c.layout.Pages[n-1].Ops) == 0 {
		c.layout.Pages = c.layout.Pages[:n-1]
	}

	return c.layout
}
