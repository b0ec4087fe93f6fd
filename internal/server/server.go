package server

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scholarbase/backend/internal/accounts"
	"github.com/scholarbase/backend/internal/api"
	"github.com/scholarbase/backend/internal/applications"
	"github.com/scholarbase/backend/internal/config"
	"github.com/scholarbase/backend/internal/documents"
	"github.com/scholarbase/backend/internal/metrics"
	"github.com/scholarbase/backend/internal/reports"
	"github.com/scholarbase/backend/internal/scholarships"
)

type Server struct {
	config *config.AppConfig
	log    *zap.Logger
	app    *fiber.App
}

type Params struct {
	fx.In

	Config             *config.AppConfig
	Logger             *zap.Logger
	AuthMiddleware     *accounts.Middleware
	AccountHandler     *accounts.Handler
	ScholarshipHandler *scholarships.Handler
	ApplicationHandler *applications.Handler
	DocumentHandler    *documents.Handler
	ReportHandler      *reports.Handler
}

func NewServer(p Params) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "scholarbase",
		DisableStartupMessage: true,
	})

	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Route().Path,
			c.Method(),
			strconv.Itoa(c.Response().StatusCode()),
		).Inc()
		return err
	})

	server := &Server{
		config: p.Config,
		log:    p.Logger,
		app:    app,
	}
	server.registerRoutes(p)

	return server
}

// registerRoutes wires each operation behind its gate: public,
// authenticated, self-or-staff, owner-or-staff, or staff-only.
func (s *Server) registerRoutes(p Params) {
	auth := p.AuthMiddleware.RequireAuth()
	staff := p.AuthMiddleware.RequireStaff()
	selfOrStaff := p.AuthMiddleware.RequireSelfOrStaff("id")

	app := s.app

	// Accounts
	acc := app.Group(api.AccountsPrefix)
	acc.Post("/create", p.AccountHandler.Create)
	acc.Post("/login", p.AccountHandler.Login)
	acc.Post("/lock/:id", auth, staff, p.AccountHandler.Lock)
	acc.Post("/unlock/:id", auth, staff, p.AccountHandler.Unlock)
	acc.Post("/password/set", auth, p.AccountHandler.SetPassword)
	acc.Post("/password/change", auth, p.AccountHandler.ChangePassword)
	acc.Get("/role-requests", auth, staff, p.AccountHandler.RoleRequests)
	acc.Get("/role-requests/count", auth, p.AccountHandler.PendingCount)
	acc.Patch("/role-update/:id", auth, staff, p.AccountHandler.Update)
	acc.Post("/role-approve/:id", auth, staff, p.AccountHandler.RoleApprove)
	acc.Get("/locked/count", auth, p.AccountHandler.LockedCount)
	acc.Get("/users", auth, staff, p.AccountHandler.List)
	acc.Get("/users/:id", auth, selfOrStaff, p.AccountHandler.Get)
	acc.Patch("/users/:id", auth, selfOrStaff, p.AccountHandler.UpdateProfile)
	acc.Delete("/users/:id", auth, selfOrStaff, p.AccountHandler.Delete)
	acc.Get("/users/:id/history", auth, p.AccountHandler.History)
	acc.Get("/me", auth, p.AccountHandler.Me)

	// Scholarships: public reads, staff writes
	sch := app.Group(api.ScholarshipsPrefix)
	sch.Get("/", p.ScholarshipHandler.List)
	sch.Post("/", auth, staff, p.ScholarshipHandler.Create)
	sch.Get("/report", p.ScholarshipHandler.Report)
	sch.Get("/donor/:donorID", p.ScholarshipHandler.ByDonor)
	sch.Post("/:id/bookmark", auth, p.ScholarshipHandler.Bookmark)
	sch.Get("/:id/bookmarks/count", p.ScholarshipHandler.BookmarkCount)
	sch.Get("/:id", p.ScholarshipHandler.Get)
	sch.Patch("/:id", auth, staff, p.ScholarshipHandler.Update)
	sch.Delete("/:id", auth, staff, p.ScholarshipHandler.Delete)

	// Applications: public reads, owner-or-staff writes enforced in the
	// handler
	apps := app.Group(api.ApplicationsPrefix)
	apps.Post("/:id/match", p.ApplicationHandler.Match)
	apps.Get("/", p.ApplicationHandler.List)
	apps.Post("/", auth, p.ApplicationHandler.Create)
	apps.Post("/:id/favorite", auth, p.ApplicationHandler.Favorite)
	apps.Post("/:id/award", auth, staff, p.ApplicationHandler.Award)
	apps.Get("/:id", p.ApplicationHandler.Get)
	apps.Patch("/:id", auth, p.ApplicationHandler.Update)
	apps.Delete("/:id", auth, p.ApplicationHandler.Delete)

	// Documents: authenticated, owner-scoped
	docs := app.Group(api.DocumentsPrefix, auth)
	docs.Post("/upload", p.DocumentHandler.Upload)
	docs.Get("/", p.DocumentHandler.List)
	docs.Get("/download/:id", p.DocumentHandler.Download)
	docs.Get("/:id", p.DocumentHandler.Get)
	docs.Delete("/:id", p.DocumentHandler.Delete)

	// Reports: public CSV exports
	rep := app.Group(api.ReportsPrefix)
	rep.Get("/available", p.ReportHandler.Available)
	rep.Get("/archived", p.ReportHandler.Archived)
	rep.Get("/applicants", p.ReportHandler.Applicants)
	rep.Get("/awarded", p.ReportHandler.Awarded)
	rep.Get("/demographics", p.ReportHandler.Demographics)
	rep.Get("/active-donors", p.ReportHandler.ActiveDonors)

	app.Get(api.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Server.Host, s.config.Server.Port)

	s.log.Info("Starting HTTP server",
		zap.String("address", addr),
		zap.Object("config", serverConfigToField(s.config)),
	)

	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func serverConfigToField(cfg *config.AppConfig) zapcore.ObjectMarshaler {
	return zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
		enc.AddString("environment", os.Getenv("APP_ENV"))
		enc.AddString("host", cfg.Server.Host)
		enc.AddString("port", cfg.Server.Port)
		enc.AddString("document_root", cfg.Storage.DocumentRoot)
		return nil
	})
}

func (s *Server) Stop() {
	s.log.Info("shutting down HTTP server")
	if err := s.app.Shutdown(); err != nil {
		s.log.Error("failed to shut down cleanly", zap.Error(err))
	}
}
