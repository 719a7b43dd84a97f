package main

import (
	"context"
	"testing"

	"authsvc/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config-dir"))
}

func TestServeOptions_MemoryGraphIsComplete(t *testing.T) {
	cfg := &config.Config{
		Storage: &config.StorageConfig{Driver: config.StorageDriverMemory},
		Auth:    &config.AuthConfig{BcryptCost: 4},
	}
	cfg.SecretKey.Access = "graph-test-secret"

	require.NoError(t, fx.ValidateApp(serveOptions(cfg)...))
}

func TestServeOptions_PostgresGraphIsComplete(t *testing.T) {
	cfg := &config.Config{
		Storage: &config.StorageConfig{Driver: config.StorageDriverPostgres},
	}

	require.NoError(t, fx.ValidateApp(serveOptions(cfg)...))
}

func TestRunMigrate_RequiresPostgres(t *testing.T) {
	cfg := &config.Config{Storage: &config.StorageConfig{Driver: config.StorageDriverMemory}}

	err := runMigrate(context.Background(), cfg)
	assert.ErrorContains(t, err, "storage.driver")
}
