package zap

import (
	"errors"
	"fmt"
	"strings"

	logpkg "github.com/raqolbi/hello-api/internal/log"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the logger profile. It mirrors ENV_NAME.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentStaging     Environment = "staging"
	EnvironmentUAT         Environment = "uat"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// verbose environments log at debug unless a level is set explicitly.
var verbose = map[Environment]bool{
	EnvironmentProduction:  false,
	EnvironmentStaging:     false,
	EnvironmentUAT:         false,
	EnvironmentDevelopment: true,
	EnvironmentLocal:       true,
}

var errMissingLibraryName = errors.New("OTelLibraryName is required")

// Config holds what New needs to build a Logger.
type Config struct {
	Environment Environment
	// Level overrides the environment default when set.
	Level string
	// OTelLibraryName is the instrumentation scope of the otelzap bridge.
	OTelLibraryName string
}

func (c Config) validate() error {
	if c.OTelLibraryName == "" {
		return errMissingLibraryName
	}

	if _, known := verbose[c.Environment]; !known {
		return fmt.Errorf("invalid environment %q", c.Environment)
	}

	return nil
}

// ConfigFromEnv turns raw ENV_NAME and LOG_LEVEL values into a Config that
// always validates for a non-empty libraryName: an unknown environment
// becomes production and an unknown level is dropped.
func ConfigFromEnv(envName, level, libraryName string) Config {
	cfg := Config{
		Environment:     Environment(strings.ToLower(strings.TrimSpace(envName))),
		OTelLibraryName: libraryName,
	}

	if _, known := verbose[cfg.Environment]; !known {
		cfg.Environment = EnvironmentProduction
	}

	if parsed, err := logpkg.ParseLevel(level); err == nil {
		cfg.Level = parsed.String()
	}

	return cfg
}

// New builds a JSON logger on stdout whose entries are also handed to the
// global OpenTelemetry logger provider. The returned level can be changed at
// runtime.
func New(cfg Config) (*Logger, zap.AtomicLevel, error) {
	if err := cfg.validate(); err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("invalid zap config: %w", err)
	}

	level, err := cfg.atomicLevel()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}

	zc := profile(cfg.Environment)
	zc.Level = level

	tee := zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, otelzap.NewCore(cfg.OTelLibraryName))
	})

	built, err := zc.Build(zap.AddCallerSkip(1), tee)
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{base: built, level: level}, level, nil
}

func (c Config) atomicLevel() (zap.AtomicLevel, error) {
	if strings.TrimSpace(c.Level) == "" {
		if verbose[c.Environment] {
			return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
		}

		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	lvl, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", c.Level, err)
	}

	return lvl, nil
}

// profile returns the zap base config. Both profiles write JSON to stdout.
func profile(env Environment) zap.Config {
	zc := zap.NewProductionConfig()
	if verbose[env] {
		zc = zap.NewDevelopmentConfig()
	}

	zc.Encoding = "json"
	zc.DisableStacktrace = true
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc
}
