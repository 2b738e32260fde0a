package bootstrap

import (
	"errors"
	"fmt"

	"github.com/raqolbi/hello-api/internal/commons"
	"github.com/raqolbi/hello-api/internal/log"
	httpapi "github.com/raqolbi/hello-api/internal/net/http"
	"github.com/raqolbi/hello-api/internal/opentelemetry"
	"github.com/raqolbi/hello-api/internal/server"
)

// ErrNilConfig is returned when InitServers receives no configuration.
var ErrNilConfig = errors.New("config is nil")

// Service is the application glue where we put all top level components to be used.
type Service struct {
	*Server
	Manager   *server.ServerManager
	Config    *Config
	Telemetry *opentelemetry.Telemetry
	log.Logger
}

// Run starts the application through the launcher and returns the first
// failure of any app it runs.
func (app *Service) Run() error {
	return commons.NewLauncher(
		commons.WithLogger(app.Logger),
		commons.RunApp("HTTP Server", app.Server),
	).RunWithError()
}

// InitServers builds telemetry, the router and the server manager from cfg.
func InitServers(cfg *Config, logger log.Logger) (*Service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if logger == nil {
		logger = log.NewNop()
	}

	tl, err := opentelemetry.NewTelemetry(opentelemetry.TelemetryConfig{
		LibraryName:               cfg.OtelLibraryName,
		ServiceName:               cfg.OtelServiceName,
		ServiceVersion:            cfg.Version,
		DeploymentEnv:             cfg.EnvName,
		CollectorExporterEndpoint: cfg.OtelColExporterEndpoint,
		EnableTelemetry:           cfg.EnableTelemetry,
		Logger:                    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	if cfg.EnableTelemetry {
		tl.ApplyGlobals()
	}

	app, err := httpapi.NewRouter(logger, tl)
	if err != nil {
		return nil, fmt.Errorf("init router: %w", err)
	}

	manager := server.NewServerManager(tl, logger).
		WithHTTPServer(app, cfg.Address()).
		WithShutdownTimeout(cfg.DrainTimeout)

	return &Service{
		Server:    NewServer(manager),
		Manager:   manager,
		Config:    cfg,
		Telemetry: tl,
		Logger:    logger,
	}, nil
}
