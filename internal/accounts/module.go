package accounts

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/config"
	"github.com/scholarbase/backend/internal/database"
)

// NewModule returns the accounts module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(manager *database.Manager) Repository {
					return NewRepository(manager.DB())
				},
			),
			fx.Annotate(
				func(config *config.AppConfig, log *zap.Logger, repo Repository) *Service {
					return NewService(&config.Auth, log, repo)
				},
			),
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Handler {
					return NewHandler(svc, log)
				},
			),
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Middleware {
					return NewMiddleware(svc, log)
				},
			),
		),
	)
}
