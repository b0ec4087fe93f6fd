package applications

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/accounts"
	"github.com/scholarbase/backend/internal/database"
	"github.com/scholarbase/backend/internal/scholarships"
)

// NewModule returns the applications module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(manager *database.Manager) Repository {
					return NewRepository(manager.DB())
				},
			),
			fx.Annotate(
				func(log *zap.Logger, repo Repository, scholarshipRepo scholarships.Repository) *Service {
					return NewService(log, repo, scholarshipRepo)
				},
			),
			fx.Annotate(
				func(svc *Service, accountsService *accounts.Service, log *zap.Logger) *Handler {
					return NewHandler(svc, accountsService, log)
				},
			),
		),
	)
}
