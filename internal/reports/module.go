package reports

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/scholarbase/backend/internal/database"
	"github.com/scholarbase/backend/internal/scholarships"
)

// NewModule returns the reports module options
func NewModule() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				func(manager *database.Manager, scholarshipRepo scholarships.Repository) Repository {
					return NewRepository(manager.DB(), scholarshipRepo)
				},
			),
			fx.Annotate(
				func(log *zap.Logger, repo Repository) *Service {
					return NewService(log, repo)
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
