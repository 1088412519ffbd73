// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/scoring"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// previewLines is how much extracted text a summary shows
	previewLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to the box's inner width, counting runes.
func truncate(line string) string {
	r := []rune(line)
	if len(r) <= boxWidth-4 {
		return line
	}
	return string(r[:boxWidth-7]) + "..."
}

func mark(pass bool) string {
	if pass {
		return "✓"
	}
	return "✗"
}

// PrintScoreReport outputs the ATS checklist with one line per criterion.
func (p *Printer) PrintScoreReport(report *scoring.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	for _, c := range report.Criteria {
		sb.WriteString(fmt.Sprintf("%s %s\n", mark(c.Pass), c.Label))
		for _, role := range c.Detail {
			if !role.OK {
				sb.WriteString(fmt.Sprintf("    %s (%d bullets)\n", role.Header, role.Bullets))
			}
		}
	}

	if len(report.Advisory) > 0 {
		sb.WriteString("\nAdvisory:\n")
		for _, c := range report.Advisory {
			sb.WriteString(fmt.Sprintf("%s %s\n", mark(c.Pass), c.Label))
		}
	}

	if len(report.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		count := min(len(report.Warnings), maxItemsToShow)
		for _, w := range report.Warnings[:count] {
			sb.WriteString(fmt.Sprintf("  • %s\n", w))
		}
		if len(report.Warnings) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Warnings)-maxItemsToShow))
		}
	}

	p.printBox(fmt.Sprintf("ATS SCORE: %d/%d", report.Score, report.OutOf), sb.String())
}

// PrintExtraction outputs extraction metadata and the first lines of text.
func (p *Printer) PrintExtraction(meta *ingestion.Metadata, text string) {
	if meta == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s\n", meta.Filename))
	sb.WriteString(fmt.Sprintf("Format:     %s\n", meta.Format))
	sb.WriteString(fmt.Sprintf("Characters: %d\n", meta.Characters))
	sb.WriteString(fmt.Sprintf("SHA256:     %s\n", meta.Hash))

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && text != "" {
		sb.WriteString("\n")
		for _, line := range lines[:min(len(lines), previewLines)] {
			sb.WriteString(line + "\n")
		}
		if len(lines) > previewLines {
			sb.WriteString(fmt.Sprintf("... and %d more lines\n", len(lines)-previewLines))
		}
	}

	p.printBox("EXTRACTED TEXT", sb.String())
}

// PrintArtifacts lists written files with their sizes.
func (p *Printer) PrintArtifacts(sizes map[string]int) {
	if len(sizes) == 0 {
		p.printBox("ARTIFACTS", "(none)")
		return
	}

	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("%-40s %8d B\n", name, sizes[name]))
	}
	p.printBox("ARTIFACTS", sb.String())
}
