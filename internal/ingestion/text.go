package ingestion

import (
	"regexp"
	"strings"
)

var (
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	blankRunRe      = regexp.MustCompile(`\n\n\n+`)
)

// CleanText normalizes extracted text: carriage returns are dropped, spaces
// and tabs before a newline are removed, runs of blank lines collapse to one
// and the result is trimmed.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r", "")
	content = trailingSpaceRe.ReplaceAllString(content, "\n")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
