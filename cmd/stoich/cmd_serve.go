package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/stoich/ui"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			server, err := ui.NewServer(cfg)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server,
				ReadHeaderTimeout: 10 * time.Second,
			}

			displayAddr := cfg.Server.Addr
			if strings.HasPrefix(displayAddr, ":") {
				displayAddr = "localhost" + displayAddr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server at http://%s\n", displayAddr)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "address to listen on (default from config)")

	return cmd
}
