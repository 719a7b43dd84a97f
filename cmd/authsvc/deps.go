package main

import (
	"context"
	"log/slog"

	"authsvc/config"
	"authsvc/internal/delivery"
	"authsvc/internal/delivery/api"
	"authsvc/internal/delivery/api/middleware"
	"authsvc/internal/delivery/api/router/handler"
	"authsvc/internal/infra/auth"
	logs "authsvc/internal/infra/log"
	"authsvc/internal/infra/metrics"
	"authsvc/internal/infra/persistence/memory"
	"authsvc/internal/infra/persistence/postgres"
	"authsvc/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In

	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

// serveOptions assembles the application graph for the given configuration.
func serveOptions(cfg *config.Config) []fx.Option {
	return []fx.Option{
		fx.Supply(cfg),
		injectInfra(),
		injectRepo(cfg),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	}
}

func injectInfra() fx.Option {
	return fx.Provide(
		logs.New,
		context.Background,
		metrics.NewRegistry,
		metrics.NewAuthMetrics,
	)
}

// injectRepo binds the UserRepository selected by storage.driver.
func injectRepo(cfg *config.Config) fx.Option {
	if cfg.Storage != nil && cfg.Storage.Driver == config.StorageDriverPostgres {
		return fx.Provide(
			postgres.New,
			postgres.NewUserRepository,
		)
	}

	return fx.Provide(
		memory.NewUserRepository,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		auth.NewBcryptHasher,
		auth.NewJWTService,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewIdentityResolver,
		impl.NewAuthService,
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			handler.NewAuthHandler,
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startServer runs every delivery in its own goroutine. A delivery that
// fails shuts the whole application down with a non-zero exit code.
func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				params.Logger.Error("Failed to start server", slog.Any("error", err))
				_ = params.Shutdowner.Shutdown(fx.ExitCode(1))
			}
		}()
	}
}
