package app

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/accounts"
	"github.com/scholarbase/backend/internal/applications"
	"github.com/scholarbase/backend/internal/database"
	"github.com/scholarbase/backend/internal/documents"
	"github.com/scholarbase/backend/internal/migration"
	"github.com/scholarbase/backend/internal/reports"
	"github.com/scholarbase/backend/internal/scholarships"
	"github.com/scholarbase/backend/internal/server"
)

// Module combines all application modules
func Module() fx.Option {
	return fx.Options(
		// Logger
		fx.Provide(newLogger),

		// Configuration
		fx.Provide(server.LoadConfig),

		// Storage
		database.Module(),
		migration.Module(),

		// Domain modules
		accounts.NewModule(),
		scholarships.NewModule(),
		applications.NewModule(),
		documents.NewModule(),
		reports.NewModule(),

		// Server
		fx.Provide(server.NewServer),

		// Start the server
		fx.Invoke(registerHooks),
	)
}

func newLogger() (*zap.Logger, error) {
	env := os.Getenv("APP_ENV")
	return server.NewLogger(env)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	srv *server.Server,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Error("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server...")
			srv.Stop()
			return nil
		},
	})
}
