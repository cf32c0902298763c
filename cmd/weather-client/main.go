package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-logbook/internal/client"
	"github.com/i474232898/weather-logbook/internal/config"
	"github.com/i474232898/weather-logbook/internal/observability"
	"github.com/i474232898/weather-logbook/internal/weather/providers"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	// Logs go to stderr so they do not interleave with the rendered output.
	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// A zero timeout means requests are never cut short.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var locator client.Locator
	switch cfg.Geolocation.Mode {
	case config.GeoIP:
		locator = client.NewIPLocator(httpClient, "")
	case config.GeoStatic:
		locator = client.StaticLocator{Lat: cfg.Geolocation.Lat, Lon: cfg.Geolocation.Lon}
	}

	app := client.NewApp(
		providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIURL, cfg.WeatherAPIKey, cfg.ForecastDays, logger),
		client.NewRecordsClient(httpClient, cfg.RecordsAPIURL, logger),
		locator,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.RunREPL(ctx, app, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
