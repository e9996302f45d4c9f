// Package main is the placement hub background worker.
//
// The worker runs periodic jobs against the configured store:
//   - closing APPROVED postings whose closing date has passed
//
// An ops HTTP server exposes health probes, job status and manual job runs.
// It shares configuration and wiring with the placement CLI and stops
// gracefully on SIGINT or SIGTERM.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/careerhub/placement-hub/config"
	"github.com/careerhub/placement-hub/internal/infrastructure/scheduler"
	"github.com/careerhub/placement-hub/internal/infrastructure/scheduler/jobs"
	"github.com/careerhub/placement-hub/internal/interface/cli"
	ophttp "github.com/careerhub/placement-hub/internal/interface/http"
	"github.com/careerhub/placement-hub/internal/interface/http/handlers"
	"github.com/careerhub/placement-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION AND LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.LoggerOptions()).With(
		logger.String("app", cfg.App.Name),
		logger.Component("worker"),
	)
	log.Info("starting placement worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("storage", cfg.Storage.Driver),
		logger.String("locking", cfg.Locking.Driver),
		logger.String("timezone", cfg.App.Timezone),
	)
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn("memory storage: the worker only sees postings created in this process")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. WIRING
	// ─────────────────────────────────────────────────────────────────────────
	app, err := cli.Build(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer func() {
		log.Info("closing connections")
		app.Close()
	}()

	if app.Migrator != nil {
		applied, err := app.Migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("database schema is up to date", logger.Int("applied", len(applied)))
	}

	if !cfg.Scheduler.Enabled {
		log.Info("scheduler disabled, nothing to do")
		return nil
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	zone := cfg.Zone()
	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{
		Logger:   log,
		Timezone: zone.Location(),
	})

	schedule, err := scheduler.ParseSchedule(cfg.Scheduler.CloseExpired)
	if err != nil {
		return fmt.Errorf("SCHEDULER_CLOSE_EXPIRED: %w", err)
	}
	closeExpired := jobs.NewCloseExpiredPostingsJob(
		app.Commands.CloseExpiredPostings,
		jobs.CloseExpiredPostingsConfig{Timeout: cfg.Scheduler.JobTimeout},
		log,
	)
	if err := sched.Register(closeExpired, schedule); err != nil {
		return fmt.Errorf("failed to register job: %w", err)
	}

	// Catch up once at startup so a worker restarted after midnight does not
	// wait a full interval.
	if res, err := sched.RunNow(ctx, closeExpired.Name()); err != nil {
		log.Warn("startup sweep failed", logger.Err(err))
	} else {
		log.Info("startup sweep finished", logger.Latency(res.Duration), logger.Bool("success", res.Success))
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Info("placement worker is running", logger.String("close_expired", schedule.String()))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. OPS SERVER
	// ─────────────────────────────────────────────────────────────────────────
	var ops *ophttp.Server
	var serverErr <-chan error
	if cfg.Ops.Enabled {
		health := handlers.NewCompositeHealthChecker(cfg.App.Name)
		for name, check := range app.Checks {
			health.AddCheck(name, check)
		}

		opsCfg := ophttp.DefaultConfig()
		opsCfg.Host = cfg.Ops.Host
		opsCfg.Port = cfg.Ops.Port
		opsCfg.Version = cfg.App.Name
		ops = ophttp.NewServer(opsCfg, ophttp.Dependencies{
			HealthChecker: health,
			Jobs:          sched,
			Logger:        log,
		})
		serverErr = ops.StartAsync()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case <-ctx.Done():
		log.Info("received shutdown signal", logger.Duration("timeout", cfg.App.ShutdownTimeout))
	case err := <-serverErr:
		if err != nil {
			log.Error("ops server failed", logger.Err(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if ops != nil {
		if err := ops.Shutdown(shutdownCtx); err != nil {
			log.Warn("ops server shutdown", logger.Err(err))
		}
	}

	done := make(chan error, 1)
	go func() { done <- sched.Stop() }()

	select {
	case err := <-done:
		if err != nil {
			log.Warn("scheduler stop", logger.Err(err))
		}
	case <-shutdownCtx.Done():
		log.Error("shutdown timed out waiting for running jobs")
	}

	snap := sched.Metrics().Snapshot()
	log.Info("shutdown completed",
		logger.Int64("executions", snap.TotalExecutions),
		logger.Int64("failures", snap.TotalFailures),
	)
	return nil
}
