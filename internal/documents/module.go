package documents

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/config"
	"github.com/scholarbase/backend/internal/database"
)

// NewModule returns the documents module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(manager *database.Manager) Repository {
					return NewRepository(manager.DB())
				},
			),
			fx.Annotate(
				func(config *config.AppConfig) (*Store, error) {
					return NewStore(config.Storage.DocumentRoot)
				},
			),
			fx.Annotate(
				func(log *zap.Logger, repo Repository, store *Store) *Service {
					return NewService(log, repo, store)
				},
			),
			fx.Annotate(
				func(svc *Service, log *zap.Logger) *Handler {
					return NewHandler(svc, log)
				},
			),
		),
	)
}
