/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"time"

	"github.com/mytherion/client/internal/fakeapi"
	"github.com/mytherion/client/internal/logger"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeFakeCmd(a *app) *cobra.Command {
	var addr, secret string

	serveCmd := &cobra.Command{
		Use:   "serve-fake",
		Short: "Starts an in-memory Mytherion API",
		Long: `Starts an in-memory Mytherion API for local development. Nothing is
persisted. Verification tokens are logged instead of mailed. Usage:

	mytherion serve-fake --addr :8080
	MYTHERION_API_URL=http://localhost:8080/api mytherion shell
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := fakeapi.New(fakeapi.Options{
				Addr:   addr,
				Secret: secret,
				Logger: a.log,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()
			a.log.Info("Fake API listening", logger.Fields{"addr": addr})

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return err
			}
			a.log.Info("Fake API stopped")
			return <-errCh
		},
	}

	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&secret, "secret", "", "session signing secret (random when empty)")
	return serveCmd
}
