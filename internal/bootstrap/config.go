package bootstrap

import (
	"errors"
	"fmt"
	"math"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/raqolbi/hello-api/internal/commons"
)

const (
	ApplicationName = "hello-api"

	DefaultPort                 uint16 = 8080
	DefaultDrainTimeout                = 10 * time.Second
	DefaultEnvName                     = "production"
	DefaultVersion                     = "0.0.0"
	DefaultOtelLibraryName             = "github.com/raqolbi/hello-api"
	DefaultOtelCollectorEndpoint       = "localhost:4317"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is unset or blank.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")

// Config is the top level configuration struct for the entire application.
// It is loaded once at startup and never mutated afterwards.
type Config struct {
	EnvName                 string `env:"ENV_NAME"`
	LogLevel                string `env:"LOG_LEVEL"`
	Version                 string `env:"VERSION"`
	DatabaseURL             string `env:"DATABASE_URL" validate:"required"`
	OtelServiceName         string `env:"OTEL_RESOURCE_SERVICE_NAME"`
	OtelLibraryName         string `env:"OTEL_LIBRARY_NAME"`
	OtelColExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	EnableTelemetry         bool   `env:"ENABLE_TELEMETRY"`

	// Port and DrainTimeout have lenient parse rules and are read separately.
	Port         uint16
	DrainTimeout time.Duration
}

// Address is the listen address, on all interfaces.
func (cfg *Config) Address() string {
	return net.JoinHostPort("0.0.0.0", strconv.FormatUint(uint64(cfg.Port), 10))
}

// LoadConfig reads the configuration from the environment.
//
// Only DATABASE_URL is required; a blank value counts as missing. An unusable
// APP_PORT or GRACEFUL_SHUTDOWN_TIMEOUT silently falls back to its default.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := commons.SetConfigFromEnvVars(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Port = parsePort(os.Getenv("APP_PORT"))
	cfg.DrainTimeout = parseDrainTimeout(os.Getenv("GRACEFUL_SHUTDOWN_TIMEOUT"))
	cfg.applyDefaults()

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.EnvName == "" {
		cfg.EnvName = DefaultEnvName
	}

	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}

	if cfg.OtelServiceName == "" {
		cfg.OtelServiceName = ApplicationName
	}

	if cfg.OtelLibraryName == "" {
		cfg.OtelLibraryName = DefaultOtelLibraryName
	}

	if cfg.OtelColExporterEndpoint == "" {
		cfg.OtelColExporterEndpoint = DefaultOtelCollectorEndpoint
	}
}

// parsePort accepts a base-10 uint16 with an optional leading '+'. Surrounding
// whitespace is not allowed. 0 is kept and lets the kernel pick.
func parsePort(raw string) uint16 {
	port, err := strconv.ParseUint(unsigned(raw), 10, 16)
	if err != nil {
		return DefaultPort
	}

	return uint16(port)
}

// parseDrainTimeout accepts whole seconds written like parsePort's input
// that fit a time.Duration.
func parseDrainTimeout(raw string) time.Duration {
	secs, err := strconv.ParseUint(unsigned(raw), 10, 64)
	if err != nil || secs > uint64(math.MaxInt64/int64(time.Second)) {
		return DefaultDrainTimeout
	}

	return time.Duration(secs) * time.Second
}

// unsigned drops one leading '+', which strconv.ParseUint rejects.
func unsigned(raw string) string {
	return strings.TrimPrefix(raw, "+")
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})

	return validate
}

func validateConfig(cfg *Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fe := range validationErrors {
			if fe.Field() == "DatabaseURL" && fe.Tag() == "required" {
				return ErrMissingDatabaseURL
			}
		}
	}

	return fmt.Errorf("invalid config: %w", err)
}
