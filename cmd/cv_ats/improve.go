package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonathan/cv-ats/internal/llm"
	"github.com/jonathan/cv-ats/internal/types"
)

type improveOptions struct {
	input  string
	output string
	req    types.ImproveRequest
}

func newImproveCmd(root *rootOptions) *cobra.Command {
	opts := &improveOptions{}
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "improve",
		Short: "Rewrite an existing résumé for a target role with the language model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImprove(cmd, root, opts, v)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "in", "i", "", "Résumé text file, or - for stdin (required)")
	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "Markdown output file (default stdout)")
	cmd.Flags().StringVarP(&opts.req.TargetRole, "role", "r", "", "Target role (required)")
	cmd.Flags().StringVar(&opts.req.Country, "country", types.DefaultCountry, "Country: MX, CO or US")
	cmd.Flags().StringVar(&opts.req.Email, "email", "", "Contact email to include")
	cmd.Flags().StringVar(&opts.req.LinkedIn, "linkedin", "", "LinkedIn URL to include")
	cmd.Flags().String("model", "", "Model name override")
	_ = v.BindPFlag("llm.model", cmd.Flags().Lookup("model"))
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func runImprove(cmd *cobra.Command, root *rootOptions, opts *improveOptions, v *viper.Viper) error {
	text, err := readInput(cmd, opts.input)
	if err != nil {
		return err
	}

	req := opts.req
	req.CVText = string(text)
	req.Normalize()
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %v", types.FieldErrors(err))
	}

	cfg, err := loadConfig(cmd.Context(), root, v)
	if err != nil {
		return err
	}
	generator, client, err := newGenerator(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if generator == nil {
		return llm.ErrMissingAPIKey
	}
	defer client.Close()

	md, err := generator.Improve(cmd.Context(), &req)
	if err != nil {
		return err
	}
	return writeOutput(cmd, opts.output, []byte(md+"\n"))
}
