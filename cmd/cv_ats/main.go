// Package main provides the cv_ats command: the résumé HTTP API server plus
// offline tools for rendering, scoring, extracting and previewing résumés.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every command.
type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "cv_ats",
		Short:         "ATS-friendly résumé service",
		Long:          "cv_ats renders résumé markdown to PDF and DOCX, scores it against an ATS checklist and serves the résumé API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default ./cv_ats.{yaml,json,toml})")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print summaries to stderr")

	cmd.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newScoreCmd(opts),
		newExtractCmd(opts),
		newPreviewCmd(opts),
		newImproveCmd(opts),
		newHashCodeCmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
