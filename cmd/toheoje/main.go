package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"toheoje/internal/backend"
	"toheoje/internal/cli"
	"toheoje/internal/dataset"
	apphttp "toheoje/internal/http"
	"toheoje/internal/log"
	"toheoje/internal/notify"
	"toheoje/internal/site"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, os.Stdout)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.LogError(context.Background(), "Invalid backend configuration", err, log.OpStartup, nil)
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger).Create(context.Background(), backendCfg)
	if err != nil {
		logger.LogError(context.Background(), "Failed to initialize data backend", err, log.OpStartup, nil)
		os.Exit(1)
	}
	defer func() {
		if err := result.Close(); err != nil {
			logger.LogError(context.Background(), "Backend cleanup failed", err, log.OpShutdown, nil)
		}
	}()

	data := dataset.New(logger)

	var amqpClient *notify.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = notify.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// Announcements are optional; the dashboard runs without them.
			logger.LogError(context.Background(), "AMQP unavailable, announcements disabled", err, log.OpStartup, nil)
		} else {
			data.OnLoaded(notify.NewAnnouncer(amqpClient, cfg.AMQPRoutingKey, logger).Hook())
			logger.Info("AMQP announcements enabled", "exchange", cfg.AMQPExchange, "routing_key", cfg.AMQPRoutingKey)
		}
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.LoadTimeout)
		defer cancel()
		data.Load(ctx, result.Source)
	}()

	srv := apphttp.NewServer(data, apphttp.Options{
		Addr:                ":" + cfg.Port,
		Logger:              logger,
		Site:                site.New(cfg.SiteURL),
		CacheSize:           cfg.CacheSize,
		CacheTTL:            cfg.CacheTTL,
		NewRecordsLimit:     cfg.NewRecordsLimit,
		ExportRatePerMinute: cfg.ExportRatePerMinute,
		AllowedOrigins:      cfg.AllowedOrigins,
	})

	done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) error {
		err := srv.Shutdown(ctx)
		if amqpClient != nil {
			err = errors.Join(err, amqpClient.Close())
		}
		return err
	})

	logger.Info("Starting toheoje server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.LogError(context.Background(), "Server error", err, log.OpStartup, nil)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
