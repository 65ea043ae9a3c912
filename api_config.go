package main

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
)

// Config is populated from the environment (and an optional .env file).
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	DevMode        bool          `envconfig:"DEV_MODE" default:"false"`
	GeocodingURL   string        `envconfig:"GEOCODING_URL" default:"https://geocoding-api.open-meteo.com/v1/search" validate:"required,url"`
	ForecastURL    string        `envconfig:"FORECAST_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"required,url"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	HistoryBackend string        `envconfig:"HISTORY_BACKEND" default:"memory" validate:"oneof=memory redis postgres sqlite"`
	RedisURL       string        `envconfig:"REDIS_URL" validate:"required_if=HistoryBackend redis"`
	DBURL          string        `envconfig:"DB_URL" validate:"required_if=HistoryBackend postgres"`
	SQLitePath     string        `envconfig:"SQLITE_PATH" default:"edweather.db" validate:"required_if=HistoryBackend sqlite"`
}

// LoadConfig reads .env if present, processes the environment, and validates the result.
func LoadConfig() (*Config, error) {
	envFileLoaded := godotenv.Load() == nil

	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("could not process environment: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if !envFileLoaded {
		newLogger(c.DevMode).Debug("no .env file found, relying on environment variables")
	}
	return &c, nil
}

func newLogger(devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

type apiConfig struct {
	geocoder   GeocodingService
	forecaster ForecastService
	history    *SearchHistory
	store      KeyValueStore
	templates  *template.Template
	validate   *validator.Validate
	httpClient *http.Client
	port       string
	devMode    bool
	logger     *slog.Logger
}

// NewAPIConfig wires the services for c. The returned config owns the history
// store; call Close when done.
func NewAPIConfig(ctx context.Context, c *Config, logger *slog.Logger) (*apiConfig, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("could not parse templates: %w", err)
	}

	store, err := openHistoryStore(ctx, c)
	if err != nil {
		return nil, err
	}
	logger.Debug("history store opened", "backend", c.HistoryBackend)

	httpClient := &http.Client{
		Timeout:   c.HTTPTimeout,
		Transport: &metricsTransport{wrapped: http.DefaultTransport},
	}

	history := NewSearchHistory(store, logger)
	history.Load(ctx)

	return &apiConfig{
		geocoder:   NewOpenMeteoGeocodingService(c.GeocodingURL, httpClient),
		forecaster: NewOpenMeteoForecastService(c.ForecastURL, httpClient),
		history:    history,
		store:      store,
		templates:  templates,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		httpClient: httpClient,
		port:       c.Port,
		devMode:    c.DevMode,
		logger:     logger,
	}, nil
}

func (cfg *apiConfig) Close() error {
	return cfg.store.Close()
}

func openHistoryStore(ctx context.Context, c *Config) (KeyValueStore, error) {
	switch c.HistoryBackend {
	case "redis":
		opt, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("could not parse Redis URL: %w", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("could not connect to Redis: %w", err)
		}
		return NewRedisStore(client), nil
	case "postgres":
		return openSQLStore(ctx, postgresDialect, c.DBURL, sql.Open)
	case "sqlite":
		return openSQLStore(ctx, sqliteDialect, c.SQLitePath, sql.Open)
	default:
		return NewMemoryStore(), nil
	}
}
