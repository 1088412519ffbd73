package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/preview"
)

func newPreviewCmd(_ *rootOptions) *cobra.Command {
	var input, output, title string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render résumé markdown as a standalone HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			md, err := readInput(cmd, input)
			if err != nil {
				return err
			}
			page, err := preview.Page(title, string(md))
			if err != nil {
				return fmt.Errorf("failed to render preview: %w", err)
			}
			return writeOutput(cmd, output, page)
		},
	}

	cmd.Flags().StringVarP(&input, "in", "i", "", "Markdown file, or - for stdin (required)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "HTML output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
