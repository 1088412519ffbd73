package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/observability"
	"github.com/jonathan/cv-ats/internal/schemas"
	"github.com/jonathan/cv-ats/internal/scoring"
)

type scoreOptions struct {
	input     string
	asJSON    bool
	failUnder int
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Grade résumé markdown against the ATS checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "Markdown file, or - for stdin (required)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().IntVar(&opts.failUnder, "fail-under", 0, "Exit with an error when the score is below this value")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runScore(cmd *cobra.Command, root *rootOptions, opts *scoreOptions) error {
	md, err := readInput(cmd, opts.input)
	if err != nil {
		return err
	}

	report := scoring.Score(string(md))
	if err := schemas.ValidateReport(report); err != nil {
		return fmt.Errorf("score report does not match its schema: %w", err)
	}

	if opts.asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		if err := writeOutput(cmd, "", append(out, '\n')); err != nil {
			return err
		}
		if root.verbose {
			observability.NewPrinter(cmd.ErrOrStderr()).PrintScoreReport(report)
		}
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintScoreReport(report)
	}

	if report.Score < opts.failUnder {
		return fmt.Errorf("score %d/%d is below %d", report.Score, report.OutOf, opts.failUnder)
	}
	return nil
}
