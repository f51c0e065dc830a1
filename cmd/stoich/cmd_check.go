package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/stoich/chem"
	"github.com/dhamidi/stoich/format"
	"github.com/dhamidi/stoich/message"
)

func newCheckCmd() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "check <equation>",
		Short: "Check whether an equation is balanced as written",
		Long: `Check an equation that carries its own coefficients, such as
"2H2 + O2 -> 2H2O", and print the atom count of every element on each side.

Exits with a non-zero status when the equation is not balanced.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, locale = outputDefaults("", locale)

			v, err := chem.Check(strings.Join(args, " "))
			if err != nil {
				return reportFailure(cmd, err, "text", locale)
			}
			if err := format.WriteVerification(cmd.OutOrStdout(), v); err != nil {
				return err
			}
			if !v.Balanced {
				fmt.Fprintln(cmd.ErrOrStderr(), message.Unbalanced(v.Mismatched, locale))
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&locale, "locale", "", "message language: en or th (default from config)")

	return cmd
}
