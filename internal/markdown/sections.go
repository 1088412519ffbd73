// Package markdown splits résumé markdown into its name, contact and body parts
// and turns the body into a flat sequence of typed blocks.
package markdown

import (
	"regexp"
	"strings"
)

// ContactHeading is the heading line that opens the contact section.
const ContactHeading = "## Datos de contacto"

// PlaceholderName is used by the exporters when the document has no "# " heading.
const PlaceholderName = "Nombre y Apellido"

var (
	lineBreakRe     = regexp.MustCompile(`\r?\n`)
	nameMarkerRe    = regexp.MustCompile(`^#\s+`)
	leadingDashesRe = regexp.MustCompile(`^-+\s*`)
)

// Lines is an ordered sequence of markdown lines. Operations in this package
// never modify a Lines value in place; they always return a new one.
type Lines []string

// String joins the lines back with "\n".
func (l Lines) String() string {
	return strings.Join(l, "\n")
}

// ParsedSections is the result of sectionizing a résumé.
type ParsedSections struct {
	Name         string   `json:"name"`
	ContactLines []string `json:"contact_lines"`
	Body         Lines    `json:"body"`
}

// SplitLines splits markdown on LF or CRLF line endings.
func SplitLines(md string) Lines {
	return Lines(lineBreakRe.Split(md, -1))
}

// StripBold removes every "**" occurrence. It does not check that markers are
// balanced.
func StripBold(s string) string {
	return strings.ReplaceAll(s, "**", "")
}

// ExtractName returns the text of the first "# " heading with its marker and
// bold markers removed, or "" when the document has none.
func ExtractName(md string) string {
	for _, raw := range SplitLines(md) {
		t := strings.TrimSpace(raw)
		if strings.HasPrefix(t, "# ") {
			return strings.TrimSpace(StripBold(nameMarkerRe.ReplaceAllString(t, "")))
		}
	}
	return ""
}

// RemoveNameHeading drops the first line starting with "# " (after trimming).
// Any later "# " lines are kept.
func RemoveNameHeading(lines Lines) Lines {
	out := make(Lines, 0, len(lines))
	removed := false
	for _, raw := range lines {
		if !removed && strings.HasPrefix(strings.TrimSpace(raw), "# ") {
			removed = true
			continue
		}
		out = append(out, raw)
	}
	return out
}

// ExtractContact pulls the "## Datos de contacto" section out of lines.
// The heading itself is discarded, captured lines have leading dashes and bold
// markers removed, and the next "## " heading ends the section and stays in the
// body. A contact section that runs to the end of the document takes the whole
// tail.
func ExtractContact(lines Lines) (contact []string, body Lines) {
	contact = []string{}
	body = make(Lines, 0, len(lines))
	inContact := false

	for _, raw := range lines {
		t := strings.TrimSpace(raw)

		if t == ContactHeading {
			inContact = true
			continue
		}

		if inContact && strings.HasPrefix(t, "## ") {
			inContact = false
			body = append(body, raw)
			continue
		}

		if inContact {
			if t != "" {
				contact = append(contact, StripBold(leadingDashesRe.ReplaceAllString(t, "")))
			}
			continue
		}

		body = append(body, raw)
	}

	return contact, body
}

// Sectionize splits a résumé into name, contact lines and body. The name is
// taken from the whole input; the body excludes both the contact section and
// the first "# " heading.
func Sectionize(md string) ParsedSections {
	contact, body := ExtractContact(SplitLines(md))
	return ParsedSections{
		Name:         ExtractName(md),
		ContactLines: contact,
		Body:         RemoveNameHeading(body),
	}
}

// ExtractSection returns the trimmed text between "## <heading>" and the next
// "## " heading. It returns "" when the section is missing or empty.
func ExtractSection(md string, heading string) string {
	var out []string
	inSection := false
	for _, raw := range SplitLines(md) {
		t := strings.TrimSpace(raw)
		if t == "## "+heading {
			inSection = true
			continue
		}
		if inSection && strings.HasPrefix(t, "## ") {
			break
		}
		if inSection {
			out = append(out, raw)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// HasSection reports whether md contains a "## <title>" line. Matching is
// case-insensitive and tolerates trailing whitespace.
func HasSection(md string, title string) bool {
	re := regexp.MustCompile(`(?mi)^##\s+` + regexp.QuoteMeta(title) + `\s*$`)
	return re.MatchString(md)
}
