package main

import (
	"authsvc/config"

	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configDir string

// NewRootCmd creates the root command for the authsvc CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "authsvc",
		Short:         "authsvc - account, credential and session token service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flag for an extra directory searched for config.yaml
	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory containing config.yaml, relative to the working directory")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

func loadConfig() (*config.Config, error) {
	if configDir != "" {
		return config.Load(configDir)
	}

	return config.New()
}
