package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/stoich/config"
)

const version = "0.1.0"

// errReported signals that the command already printed its failure.
var errReported = errors.New("reported")

// cfg is loaded before any subcommand runs.
var cfg = config.DefaultConfig()

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose int

	rootCmd := &cobra.Command{
		Use:           "stoich",
		Short:         "Balance chemical equations",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded

			var logFile *string
			if cfg.Logging.File != "" {
				logFile = &cfg.Logging.File
			}
			commonlog.Configure(cfg.Logging.Verbosity+verbose, logFile)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to the YAML config file")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newBalanceCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newGrammarCmd())

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "stoich:", err)
		}
		stop()
		os.Exit(1)
	}
}
