package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-core/internal/clock"
	"github.com/spec-kit/commerce-core/internal/config"
	"github.com/spec-kit/commerce-core/internal/events"
	"github.com/spec-kit/commerce-core/internal/jobs"
	"github.com/spec-kit/commerce-core/internal/maintenance"
	"github.com/spec-kit/commerce-core/internal/observability"
	"github.com/spec-kit/commerce-core/internal/ops"
	"github.com/spec-kit/commerce-core/internal/persistence"
	"github.com/spec-kit/commerce-core/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	clk := clock.System{}
	dispatcher := events.NewInMemoryDispatcher()
	invalidator := jobs.NewCacheInvalidator(redis, logger)
	dispatcher.Subscribe(events.EventStatsRebuilt, invalidator.HandleStatsRebuilt)

	metrics := observability.NewJobMetrics()
	pool := pg.PoolHandle()

	sched := scheduler.New(pool, logger, clk, metrics)
	sched.Register(jobs.NewSlaRecomputeJob(clk, dispatcher, cfg.Scheduler.SlaInterval, cfg.Scheduler.SlaWarningWindow))
	sched.Register(jobs.NewDailyStatsJob(clk, dispatcher, cfg.Scheduler.DailyStatsInterval, cfg.Stats.DailyWindowDays))
	sched.Register(jobs.NewWeeklyStatsJob(clk, dispatcher, cfg.Scheduler.WeeklyStatsInterval, cfg.Stats.WeeklyWindowWeeks))
	sched.Register(jobs.NewMonthlyStatsJob(clk, dispatcher, cfg.Scheduler.MonthlyStatsInterval, cfg.Stats.MonthlyWindowMonths))
	sched.Register(jobs.NewExpirySweepJob(clk, dispatcher, cfg.Scheduler.ExpirySweepInterval))

	if cfg.Stats.BackfillOnStart {
		runBackfill(ctx, cfg, sched, clk, dispatcher, logger)
	}

	loop := maintenance.New(pool, logger, clk, dispatcher,
		cfg.Maintenance.Interval, cfg.Maintenance.PendingPaymentTimeout)
	loop.Start()

	opsServer := ops.NewServer(cfg.App, pg, redis, sched, metrics, logger)
	go func() {
		if err := opsServer.Listen(); err != nil {
			logger.Fatal("ops server listen", zap.Error(err))
		}
	}()

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		if err := sched.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("scheduler exited", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	<-schedDone
	loop.Stop()
	_ = opsServer.Shutdown()
}

// runBackfill rebuilds the long trailing history once, before the recurring
// jobs take over with their shorter windows. A failed backfill is logged and
// the worker carries on; the recurring jobs will still keep the recent
// windows correct.
func runBackfill(ctx context.Context, cfg *config.Config, sched *scheduler.Scheduler, clk clock.Clock, dispatcher events.Dispatcher, logger *zap.Logger) {
	logger.Info("running stats backfill",
		zap.Int("days", cfg.Stats.BackfillDays),
		zap.Int("weeks", cfg.Stats.BackfillWeeks),
		zap.Int("months", cfg.Stats.BackfillMonths),
	)

	backfillJobs := []scheduler.Job{
		jobs.NewDailyStatsJob(clk, dispatcher, cfg.Scheduler.DailyStatsInterval, cfg.Stats.BackfillDays),
		jobs.NewWeeklyStatsJob(clk, dispatcher, cfg.Scheduler.WeeklyStatsInterval, cfg.Stats.BackfillWeeks),
		jobs.NewMonthlyStatsJob(clk, dispatcher, cfg.Scheduler.MonthlyStatsInterval, cfg.Stats.BackfillMonths),
	}
	for _, job := range backfillJobs {
		if err := sched.RunOnce(ctx, job); err != nil {
			logger.Error("stats backfill failed", zap.String("job", job.Name()), zap.Error(err))
		}
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
