package markdown

import (
	"regexp"
	"strings"
)

// ContactKind classifies a free-form contact line.
type ContactKind string

// Contact categories recognized by Classify.
const (
	ContactPhone        ContactKind = "phone"
	ContactEmail        ContactKind = "email"
	ContactLinkedIn     ContactKind = "linkedin"
	ContactLocation     ContactKind = "location"
	ContactUnclassified ContactKind = "unclassified"
)

// contactSeparator joins the parts of a normalized contact line.
const contactSeparator = " | "

var contactPatterns = []struct {
	kind ContactKind
	re   *regexp.Regexp
}{
	{ContactPhone, regexp.MustCompile(`(?i)celular|tel[eé]fono|phone|\btel\b`)},
	{ContactEmail, regexp.MustCompile(`@`)},
	{ContactLinkedIn, regexp.MustCompile(`(?i)linkedin`)},
	{ContactLocation, regexp.MustCompile(`(?i)ciudad|ubicaci[oó]n|location|direcci[oó]n`)},
}

// Classify returns every category line matches, checked independently in the
// order phone, email, linkedin, location. A bare "Tel" label counts as a
// phone. A line matching nothing is ContactUnclassified.
func Classify(line string) []ContactKind {
	var kinds []ContactKind
	for _, p := range contactPatterns {
		if p.re.MatchString(line) {
			kinds = append(kinds, p.kind)
		}
	}
	if len(kinds) == 0 {
		return []ContactKind{ContactUnclassified}
	}
	return kinds
}

// cleanContactLines trims lines, drops blanks and strips leading dash bullets.
func cleanContactLines(lines []string) []string {
	clean := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		clean = append(clean, leadingDashesRe.ReplaceAllString(l, ""))
	}
	return clean
}

// NormalizeContact collapses contact lines into at most two lines:
// phone and email first, then location and LinkedIn. The first line matching
// each category wins. Categories are searched independently, so one physical
// line can fill two slots. When no line is classified the first two cleaned
// lines are returned as they are.
func NormalizeContact(lines []string) []string {
	clean := cleanContactLines(lines)

	picked := make(map[ContactKind]string, len(contactPatterns))
	for _, p := range contactPatterns {
		for _, l := range clean {
			if p.re.MatchString(l) {
				picked[p.kind] = l
				break
			}
		}
	}

	out := make([]string, 0, 2)
	if line := joinNonEmpty(picked[ContactPhone], picked[ContactEmail]); line != "" {
		out = append(out, line)
	}
	if line := joinNonEmpty(picked[ContactLocation], picked[ContactLinkedIn]); line != "" {
		out = append(out, line)
	}

	if len(out) == 0 {
		if len(clean) > 2 {
			return clean[:2]
		}
		return clean
	}
	return out
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, contactSeparator)
}
