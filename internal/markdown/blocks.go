package markdown

import (
	"regexp"
	"strings"
)

// BlockKind tags a Block.
type BlockKind string

// Block kinds produced by RenderBlocks.
const (
	BlockHeading   BlockKind = "heading"
	BlockBullet    BlockKind = "bullet"
	BlockParagraph BlockKind = "paragraph"
	BlockBlank     BlockKind = "blank"
)

var headingRe = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)

// Block is one line of body content. Level is set only for headings (1..3).
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Text  string    `json:"text,omitempty"`
}

// Heading returns a heading block.
func Heading(level int, text string) Block {
	return Block{Kind: BlockHeading, Level: level, Text: text}
}

// Bullet returns a bullet block.
func Bullet(text string) Block {
	return Block{Kind: BlockBullet, Text: text}
}

// Paragraph returns a paragraph block.
func Paragraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text}
}

// Blank returns a blank block.
func Blank() Block {
	return Block{Kind: BlockBlank}
}

// RenderBlocks converts body lines to blocks in document order, one block per
// line. Only "- " starts a bullet; any other marker is paragraph text.
func RenderBlocks(body Lines) []Block {
	blocks := make([]Block, 0, len(body))
	for _, raw := range body {
		t := strings.TrimSpace(raw)

		if t == "" {
			blocks = append(blocks, Blank())
			continue
		}

		if m := headingRe.FindStringSubmatch(t); m != nil {
			blocks = append(blocks, Heading(len(m[1]), stripBoldTrim(m[2])))
			continue
		}

		if strings.HasPrefix(t, "- ") {
			blocks = append(blocks, Bullet(stripBoldTrim(t[2:])))
			continue
		}

		blocks = append(blocks, Paragraph(stripBoldTrim(t)))
	}
	return blocks
}

func stripBoldTrim(s string) string {
	return strings.TrimSpace(StripBold(s))
}

// Document is a résumé ready for an export backend.
type Document struct {
	Name    string   `json:"name"`
	Contact []string `json:"contact"`
	Blocks  []Block  `json:"blocks"`
}

// Prepare runs the full pipeline: sectionize, normalize contact lines and
// render the body. A missing name is replaced by PlaceholderName.
func Prepare(md string) *Document {
	sections := Sectionize(md)

	name := StripBold(sections.Name)
	if name == "" {
		name = PlaceholderName
	}

	return &Document{
		Name:    name,
		Contact: NormalizeContact(sections.ContactLines),
		Blocks:  RenderBlocks(sections.Body),
	}
}
