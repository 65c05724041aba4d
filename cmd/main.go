package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angeloszaimis/l4-dispatch/config"
	"github.com/angeloszaimis/l4-dispatch/internal/dispatcher"
	"github.com/angeloszaimis/l4-dispatch/internal/healthcheck"
	"github.com/angeloszaimis/l4-dispatch/internal/httpserver"
	"github.com/angeloszaimis/l4-dispatch/internal/metrics"
	"github.com/angeloszaimis/l4-dispatch/internal/registry"
	"github.com/angeloszaimis/l4-dispatch/internal/strategy"
	"github.com/angeloszaimis/l4-dispatch/internal/target"
	"github.com/angeloszaimis/l4-dispatch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	interval, err := time.ParseDuration(cfg.HealthCheck.Interval)
	if err != nil {
		log.Error("Invalid health check interval", slog.Any("err", err))
		os.Exit(1)
	}

	grace, err := time.ParseDuration(cfg.HealthCheck.GracePeriod)
	if err != nil {
		log.Error("Invalid health check grace period", slog.Any("err", err))
		os.Exit(1)
	}

	strat, err := strategy.FromName(cfg.Strategy.Type)
	if err != nil {
		log.Error("Failed to create strategy",
			slog.String("strategy", cfg.Strategy.Type),
			slog.Any("err", err))
		os.Exit(1)
	}

	reg := initializeTargets(cfg, log)

	collector := metrics.NewCollector(256, log)
	collector.Start(ctx)

	probe := healthcheck.DampedProbe(
		healthcheck.SelfReportProbe(),
		cfg.HealthCheck.FailureThreshold,
	)
	monitor := healthcheck.NewMonitor(reg, probe, interval, grace, log)
	monitor.OnHealthChange(func(name string, healthy bool) {
		collector.Publish(metrics.Event{
			Type:    metrics.EventHealthChanged,
			Target:  name,
			Healthy: healthy,
		})
	})

	disp := dispatcher.New(reg, strat, monitor, collector, log)
	disp.StartHealthChecking()

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(log, disp, reg, collector, cfg.Strategy.Type))
	if err != nil {
		log.Error("Failed to create admin server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		log.Info("Admin server listening", slog.String("address", cfg.Server.Address))
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
		disp.Shutdown()
	case err := <-srvErrCh:
		disp.Shutdown()
		if err != nil {
			log.Error("Error running admin server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func initializeTargets(cfg *config.Config, log *slog.Logger) *registry.Registry {
	reg := registry.New()

	for _, name := range cfg.Targets {
		reg.Add(target.New(name))
		log.Info("Registered target", slog.String("target", name))
	}

	return reg
}
