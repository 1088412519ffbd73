package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-ats/internal/observability"
	"github.com/jonathan/cv-ats/internal/rendering"
)

type renderOptions struct {
	input     string
	outDir    string
	name      string
	formats   []string
	photo     string
	transcode bool
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render résumé markdown to PDF and DOCX",
		Long:  "Renders a markdown résumé into each requested format concurrently and writes <name>.<ext> files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "Markdown file, or - for stdin (required)")
	cmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", ".", "Output directory")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "CV", "Output file name without extension")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{rendering.FormatPDF, rendering.FormatDocx}, "Formats to render")
	cmd.Flags().StringVar(&opts.photo, "photo", "", "Photo file to place in the header")
	cmd.Flags().BoolVar(&opts.transcode, "transcode", true, "Convert non PNG/JPEG photos to PNG")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runRender(cmd *cobra.Command, root *rootOptions, opts *renderOptions) error {
	md, err := readInput(cmd, opts.input)
	if err != nil {
		return err
	}
	if strings.TrimSpace(string(md)) == "" {
		return fmt.Errorf("input markdown is empty")
	}

	renderers := make([]rendering.Renderer, 0, len(opts.formats))
	for _, f := range opts.formats {
		r, err := rendering.ForFormat(f)
		if err != nil {
			return err
		}
		renderers = append(renderers, r)
	}

	photo, err := loadPhoto(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var mu sync.Mutex
	sizes := make(map[string]int, len(renderers))

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, r := range renderers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := rendering.RenderMarkdown(r, string(md), photo)
			if err != nil {
				return err
			}
			path := filepath.Join(opts.outDir, rendering.Filename(opts.name, r))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			mu.Lock()
			sizes[path] = len(data)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if root.verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintArtifacts(sizes)
	}
	return nil
}

func loadPhoto(ctx context.Context, opts *renderOptions) (*rendering.Photo, error) {
	if opts.photo == "" {
		return nil, nil
	}
	dataURL, err := photoDataURL(opts.photo)
	if err != nil {
		return nil, err
	}
	var tc rendering.Transcoder
	if opts.transcode {
		tc = rendering.ImageTranscoder{}
	}
	return rendering.PreparePhoto(ctx, dataURL, tc)
}
