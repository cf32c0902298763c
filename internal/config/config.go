package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-logbook/internal/weather/providers"
)

var validate = validator.New()

// Store drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

// Geolocation modes.
const (
	GeoIP     = "ip"
	GeoOff    = "off"
	GeoStatic = "static"
)

// ServerConfig configures the records API and the tracker.
type ServerConfig struct {
	Port            string        `validate:"required,numeric"`
	StoreDriver     string        `validate:"oneof=mongo memory"`
	MongoURI        string        `validate:"required_if=StoreDriver mongo"`
	MongoCollection string        `validate:"required"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogFormat       string        `validate:"oneof=json text"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Tracker. Disabled unless both a key and locations are set.
	WeatherAPIKey  string
	WeatherAPIURL  string `validate:"required,url"`
	ForecastDays   int    `validate:"min=1,max=14"`
	TrackLocations []string
	TrackInterval  time.Duration `validate:"gt=0"`
}

// TrackerEnabled reports whether scheduled lookups should run.
func (c *ServerConfig) TrackerEnabled() bool {
	return c.WeatherAPIKey != "" && len(c.TrackLocations) > 0
}

// Geolocation selects how the client resolves "here".
type Geolocation struct {
	Mode string `validate:"oneof=ip off static"`
	Lat  float64
	Lon  float64
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	WeatherAPIKey string        `validate:"required"`
	WeatherAPIURL string        `validate:"required,url"`
	RecordsAPIURL string        `validate:"required,url"`
	ForecastDays  int           `validate:"min=1,max=14"`
	Geolocation   Geolocation
	HTTPTimeout   time.Duration `validate:"gte=0"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
	LogFormat     string        `validate:"oneof=json text"`
}

// LoadServer reads the server configuration from the environment (and .env if present).
func LoadServer() (*ServerConfig, error) {
	loadDotEnv()

	shutdownTimeout, err := getenvDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	trackInterval, err := getenvDuration("TRACK_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	days, err := getenvInt("FORECAST_DAYS", 5)
	if err != nil {
		return nil, err
	}

	cfg := &ServerConfig{
		Port:            getenvDefault("PORT", "5000"),
		StoreDriver:     strings.ToLower(getenvDefault("STORE_DRIVER", DriverMongo)),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoCollection: getenvDefault("MONGO_COLLECTION", "weathers"),
		LogLevel:        strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getenvDefault("LOG_FORMAT", "json")),
		ShutdownTimeout: shutdownTimeout,
		WeatherAPIKey:   os.Getenv("WEATHER_API_KEY"),
		WeatherAPIURL:   getenvDefault("WEATHER_API_URL", providers.DefaultWeatherAPIURL),
		ForecastDays:    days,
		TrackLocations:  splitList(os.Getenv("TRACK_LOCATIONS")),
		TrackInterval:   trackInterval,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	return cfg, nil
}

// LoadClient reads the client configuration from the environment (and .env if present).
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	timeout, err := getenvDuration("HTTP_TIMEOUT", "0s")
	if err != nil {
		return nil, err
	}
	days, err := getenvInt("FORECAST_DAYS", 5)
	if err != nil {
		return nil, err
	}
	geo, err := ParseGeolocation(getenvDefault("GEOLOCATION", GeoIP))
	if err != nil {
		return nil, err
	}

	cfg := &ClientConfig{
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		WeatherAPIURL: getenvDefault("WEATHER_API_URL", providers.DefaultWeatherAPIURL),
		RecordsAPIURL: strings.TrimRight(os.Getenv("RECORDS_API_URL"), "/"),
		ForecastDays:  days,
		Geolocation:   geo,
		HTTPTimeout:   timeout,
		LogLevel:      strings.ToLower(getenvDefault("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getenvDefault("LOG_FORMAT", "text")),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}

// ParseGeolocation accepts "ip", "off" or fixed coordinates as "lat,lon".
func ParseGeolocation(s string) (Geolocation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case GeoIP, GeoOff:
		return Geolocation{Mode: s}, nil
	}

	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return Geolocation{}, fmt.Errorf("invalid GEOLOCATION %q: want ip, off or lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Geolocation{}, fmt.Errorf("invalid GEOLOCATION latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return Geolocation{}, fmt.Errorf("invalid GEOLOCATION longitude %q", lonStr)
	}
	return Geolocation{Mode: GeoStatic, Lat: lat, Lon: lon}, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
