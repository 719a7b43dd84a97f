package main

import (
	"context"
	"log/slog"

	"authsvc/config"
	"authsvc/internal/domain/lifecycle"
	logs "authsvc/internal/infra/log"
	"authsvc/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users table",
		Long: `Create or update the users table and its unique email index.
Only meaningful when storage.driver is postgres.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			return runMigrate(cmd.Context(), cfg)
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config) error {
	if cfg.Storage == nil || cfg.Storage.Driver != config.StorageDriverPostgres {
		return errors.New("migrate requires storage.driver to be postgres")
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(
			logs.New,
			postgres.New,
		),
		fx.Invoke(registerMigration),
		fx.NopLogger,
	)

	startCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return errors.Wrap(err, "migration failed")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer stopCancel()

	return errors.WithStack(app.Stop(stopCtx))
}

// registerMigration runs after the database hook has pinged the server.
func registerMigration(lc fx.Lifecycle, db *gorm.DB, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Applying user schema migration")
			if err := postgres.Migrate(ctx, db); err != nil {
				return err
			}
			logger.Info("User schema is up to date")

			return nil
		},
	})
}
