package ops

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-core/internal/config"
	"github.com/spec-kit/commerce-core/internal/observability"
	"github.com/spec-kit/commerce-core/internal/persistence"
	"github.com/spec-kit/commerce-core/internal/scheduler"
)

// Server exposes the worker's operational surface: liveness/readiness and a
// per-job status view. It serves no business queries; dashboards read the
// stat tables directly.
type Server struct {
	app     *fiber.App
	addr    string
	name    string
	version string

	postgres  *persistence.Postgres
	redis     *persistence.Redis
	scheduler *scheduler.Scheduler
	metrics   *observability.JobMetrics
	logger    *zap.Logger
}

// NewServer wires routes onto a fresh fiber app.
func NewServer(cfg config.AppConfig, pg *persistence.Postgres, rd *persistence.Redis, sched *scheduler.Scheduler, metrics *observability.JobMetrics, logger *zap.Logger) *Server {
	s := &Server{
		app:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		addr:      cfg.OpsAddr(),
		name:      cfg.Name,
		version:   cfg.Version,
		postgres:  pg,
		redis:     rd,
		scheduler: sched,
		metrics:   metrics,
		logger:    logger,
	}

	s.app.Get("/healthz", s.health)
	s.app.Get("/status", s.status)
	return s
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	s.logger.Info("ops server listening", zap.String("addr", s.addr))
	return s.app.Listen(s.addr)
}

// Shutdown stops the HTTP listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	healthy := true

	if err := s.postgres.Ping(ctx); err != nil {
		depStatus["postgres"] = err.Error()
		healthy = false
	} else {
		depStatus["postgres"] = "ok"
	}

	if err := s.redis.Ping(ctx); err != nil {
		depStatus["redis"] = err.Error()
		healthy = false
	} else {
		depStatus["redis"] = "ok"
	}

	status := fiber.StatusOK
	if !healthy {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"service":      s.name,
		"version":      s.version,
		"dependencies": depStatus,
	})
}

func (s *Server) status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"jobs":    s.scheduler.Snapshot(),
		"metrics": s.metrics.Snapshot(),
	})
}
