package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/stoich/chem"
	"github.com/dhamidi/stoich/format"
	"github.com/dhamidi/stoich/message"
)

func newBalanceCmd() *cobra.Command {
	var formatName string
	var locale string

	cmd := &cobra.Command{
		Use:   "balance [equation...]",
		Short: "Balance a chemical equation",
		Long: `Balance a chemical equation with the smallest positive whole-number
coefficients.

Arguments are joined with spaces, so the equation may be quoted or not.
If no arguments are given, the equation is read from stdin.

Separate compounds with + and the two sides with -> or →:

  stoich balance "CH4 + O2 -> CO2 + H2O"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := equationFrom(cmd, args)
			if err != nil {
				return err
			}
			formatName, locale = outputDefaults(formatName, locale)

			enc, err := format.New(formatName, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := chem.Balance(text)
			if err != nil {
				return reportFailure(cmd, err, formatName, locale)
			}
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: json or text (default from config)")
	cmd.Flags().StringVar(&locale, "locale", "", "message language: en or th (default from config)")

	return cmd
}

func equationFrom(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no equation given")
	}
	return text, nil
}

func outputDefaults(formatName, locale string) (string, string) {
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	if locale == "" || !message.Supported(locale) {
		locale = cfg.Output.Locale
	}
	return formatName, locale
}

// reportFailure prints a balancing error in the selected format.
func reportFailure(cmd *cobra.Command, err error, formatName, locale string) error {
	if formatName == "json" {
		if encErr := format.EncodeFailure(cmd.OutOrStdout(), err, locale); encErr != nil {
			return encErr
		}
		return errReported
	}
	fmt.Fprintln(cmd.ErrOrStderr(), message.For(err, locale))
	return errReported
}
