package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-ats/internal/unlock"
)

func newHashCodeCmd(_ *rootOptions) *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-code <code>",
		Short: "Print the bcrypt hash of an unlock code for UNLOCK_CODE_HASHES",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := unlock.HashCode(args[0], cost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}

	cmd.Flags().IntVar(&cost, "cost", 12, "bcrypt cost")
	return cmd
}
