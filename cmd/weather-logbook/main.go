package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	httpapi "github.com/i474232898/weather-logbook/internal/api/http"
	"github.com/i474232898/weather-logbook/internal/config"
	"github.com/i474232898/weather-logbook/internal/observability"
	"github.com/i474232898/weather-logbook/internal/scheduler"
	"github.com/i474232898/weather-logbook/internal/store"
	"github.com/i474232898/weather-logbook/internal/weather"
	"github.com/i474232898/weather-logbook/internal/weather/providers"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var recordStore weather.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		recordStore = store.NewMemoryStore(nil)
		logger.Warn("using in-memory store; records are lost on restart")
	default:
		client, db, err := store.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer disconnect(client, logger)
		logger.Info("connected to mongodb", "database", db.Name(), "collection", cfg.MongoCollection)
		recordStore = store.NewMongoStore(db, cfg.MongoCollection, nil)
	}

	service := weather.NewService(recordStore, logger, metrics)

	if cfg.TrackerEnabled() {
		forecaster := providers.NewWeatherAPIProvider(
			&http.Client{Timeout: 15 * time.Second},
			cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.ForecastDays, logger,
		)
		tracker := scheduler.New(cfg.TrackLocations, cfg.TrackInterval, service, forecaster, logger, metrics)
		if err := tracker.Start(); err != nil {
			return err
		}
		defer tracker.Stop()
	}

	app := httpapi.NewApp(service, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
		return errors.New("http server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	return nil
}

func disconnect(client *mongo.Client, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Error("mongodb disconnect failed", "error", err)
	}
}
