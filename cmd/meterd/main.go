package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/overlandla/nebenkosten-sub000/internal/core/config"
	"github.com/overlandla/nebenkosten-sub000/internal/household"
	"github.com/overlandla/nebenkosten-sub000/internal/migrations"
	"github.com/overlandla/nebenkosten-sub000/internal/query"
	"github.com/overlandla/nebenkosten-sub000/internal/server"
	"github.com/overlandla/nebenkosten-sub000/internal/storage/influx"
	"github.com/overlandla/nebenkosten-sub000/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "metering.yaml", "Path to configuration file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("Loaded config",
		"addr", fmtAddr(cfg.Server.Host, cfg.Server.Port),
		"influx_url", cfg.Influx.URL,
		"influx_bucket", cfg.Influx.Bucket,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres holds the household/meter/price configuration.
	pgAdapter, err := postgres.NewAdapter(
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
	)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer pgAdapter.Close()

	if err := migrations.Run(pgAdapter.DB(), cfg.Database.AutoMigrate); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}

	// InfluxDB holds the meter readings the dashboard charts.
	influxClient, err := influx.NewClient(ctx, cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org)
	if err != nil {
		slog.Error("Failed to initialize influx client", "error", err)
		os.Exit(1)
	}
	defer influxClient.Close()

	querySvc := query.NewService(influxClient, cfg.Influx.Bucket)
	householdSvc := household.NewService(pgAdapter, querySvc)

	srv := server.New(
		fmtAddr(cfg.Server.Host, cfg.Server.Port),
		cfg.Server.Mode,
		map[string]server.HealthChecker{
			"database": pgAdapter,
			"influx":   influxClient,
		},
	)
	querySvc.RegisterRoutes(srv.Engine)
	householdSvc.RegisterRoutes(srv.Engine)

	// Signal handler triggers the shutdown sequence below.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("Signal received, shutting down...")
		cancel()
	}()

	// HTTP server blocks until ctx is cancelled.
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server stopped with error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func fmtAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
