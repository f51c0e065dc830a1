package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/stoich/batch"
	"github.com/dhamidi/stoich/format"
	"github.com/dhamidi/stoich/message"
)

func newBatchCmd() *cobra.Command {
	var workers int
	var formatName string
	var locale string
	var watch bool

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Balance one equation per line",
		Long: `Balance every equation in a file, one per line. Blank lines and lines
starting with # are skipped. If no file is given, equations are read from
stdin.

Equations are balanced concurrently and printed in input order, as text or
as one JSON object per line. The exit status is non-zero if any equation
fails.

With --watch, the file is balanced again every time it changes until the
command is interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, locale = outputDefaults(formatName, locale)
			if workers <= 0 {
				workers = cfg.Batch.Workers
			}

			if watch {
				if len(args) != 1 {
					return fmt.Errorf("--watch requires a file argument")
				}
				return batch.Watch(cmd.Context(), args[0], 200*time.Millisecond, func(equations []string) error {
					outcomes, err := batch.Run(cmd.Context(), equations, workers)
					if err != nil {
						// interrupted; Watch sees the same context and returns
						return nil
					}
					fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", time.Now().Format(time.TimeOnly))
					_, err = writeOutcomes(cmd.OutOrStdout(), outcomes, formatName, locale)
					return err
				})
			}

			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open file: %w", err)
				}
				defer f.Close()
				r = f
			}

			equations, err := batch.ReadLines(r)
			if err != nil {
				return err
			}

			outcomes, err := batch.Run(cmd.Context(), equations, workers)
			if err != nil {
				return err
			}

			failed, err := writeOutcomes(cmd.OutOrStdout(), outcomes, formatName, locale)
			if err != nil {
				return err
			}
			if failed > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d equations failed\n", failed, len(outcomes))
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "number of concurrent workers (default from config)")
	cmd.Flags().StringVarP(&formatName, "format", "f", "", "output format: json or text (default from config)")
	cmd.Flags().StringVar(&locale, "locale", "", "message language: en or th (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "balance the file again whenever it changes")

	return cmd
}

func writeOutcomes(w io.Writer, outcomes []batch.Outcome, formatName, locale string) (int, error) {
	enc := json.NewEncoder(w)
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}

		var err error
		switch formatName {
		case "json":
			if o.Err != nil {
				err = enc.Encode(format.Failure(o.Err, locale))
			} else {
				err = enc.Encode(format.Success(o.Result))
			}
		default:
			if o.Err != nil {
				_, err = fmt.Fprintf(w, "%s: %s\n", o.Input, message.For(o.Err, locale))
			} else {
				_, err = fmt.Fprintln(w, o.Result.Balanced)
			}
		}
		if err != nil {
			return failed, err
		}
	}
	return failed, nil
}
