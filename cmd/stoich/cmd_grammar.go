package main

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/stoich/syntax"
)

func newGrammarCmd() *cobra.Command {
	var check string
	var file string

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the equation grammar",
		Long: `Print the EBNF grammar used to tokenize equations, after verifying it
from its start production.

With --check, print the tokens the grammar produces for the given text
instead. With --file, verify and use another grammar file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var grammar ebnf.Grammar
			var err error
			if file != "" {
				grammar, err = syntax.LoadGrammar(file)
			} else {
				grammar, err = syntax.Grammar()
			}
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}

			if cmd.Flags().Changed("check") {
				for _, tok := range syntax.NewLexer(grammar, []byte(check), "").Tokenize() {
					fmt.Fprintln(out, tok)
				}
				return nil
			}

			if file != "" {
				fmt.Fprintf(out, "%s: ok\n", file)
				return nil
			}
			_, err = io.WriteString(out, syntax.Source())
			return err
		},
	}

	cmd.Flags().StringVar(&check, "check", "", "print the token stream for this text")
	cmd.Flags().StringVar(&file, "file", "", "grammar file to verify instead of the built-in one")

	return cmd
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(w io.Writer, err error) {
	if inner := errors.Unwrap(err); inner != nil {
		v := reflect.ValueOf(inner)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
