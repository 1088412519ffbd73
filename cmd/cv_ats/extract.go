package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/ingestion"
	"github.com/jonathan/cv-ats/internal/observability"
)

type extractOptions struct {
	input    string
	output   string
	metaFile string
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract plain text from a PDF, DOCX, HTML or TXT résumé",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "Résumé file (required)")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "Text output file (default stdout)")
	cmd.Flags().StringVar(&opts.metaFile, "meta", "", "Write extraction metadata JSON to this file")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runExtract(cmd *cobra.Command, root *rootOptions, opts *extractOptions) error {
	data, err := readInput(cmd, opts.input)
	if err != nil {
		return err
	}

	filename := filepath.Base(opts.input)
	text, err := ingestion.ExtractText(filename, data)
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", filename, err)
	}

	if err := writeOutput(cmd, opts.output, []byte(text+"\n")); err != nil {
		return err
	}

	meta := ingestion.NewMetadata(filename, text)
	if opts.metaFile != "" {
		b, err := meta.ToJSON()
		if err != nil {
			return err
		}
		if err := writeOutput(cmd, opts.metaFile, b); err != nil {
			return err
		}
	}
	if root.verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintExtraction(meta, text)
	}
	return nil
}
