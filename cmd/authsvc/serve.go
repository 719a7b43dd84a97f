package main

import (
	"context"

	"authsvc/internal/domain/lifecycle"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP auth gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			app := fx.New(serveOptions(cfg)...)
			if err := app.Start(cmd.Context()); err != nil {
				return errors.Wrap(err, "failed to start application")
			}

			sig := <-app.Wait()

			stopCtx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
			defer cancel()
			if err := app.Stop(stopCtx); err != nil {
				return errors.Wrap(err, "failed to stop application")
			}

			if sig.ExitCode != 0 {
				return errors.Errorf("application exited with code %d", sig.ExitCode)
			}

			return nil
		},
	}
}
