package main

import (
	"context"
	"fmt"
	"os"

	"github.com/raqolbi/hello-api/internal/bootstrap"
	"github.com/raqolbi/hello-api/internal/commons"
	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/zap"
)

func main() {
	os.Exit(run())
}

// run boots the service and returns the process exit status. prepare lets
// callers adjust the service before it starts.
func run(prepare ...func(*bootstrap.Service)) int {
	commons.InitLocalEnvConfig()

	logger, _, err := zap.New(zap.ConfigFromEnv(
		commons.GetenvOrDefault("ENV_NAME", bootstrap.DefaultEnvName),
		commons.GetenvOrDefault("LOG_LEVEL", ""),
		commons.GetenvOrDefault("OTEL_LIBRARY_NAME", bootstrap.DefaultOtelLibraryName),
	))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return 1
	}

	ctx := context.Background()

	defer func() { _ = logger.Sync(ctx) }()

	logger.Log(ctx, log.LevelInfo, "Booting application")

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Log(ctx, log.LevelWarn, "Failed to load config", log.Err(err))
		return 1
	}

	logger.Log(ctx, log.LevelInfo, "DATABASE_URL loaded (value hidden)")

	svc, err := bootstrap.InitServers(cfg, logger)
	if err != nil {
		logger.Log(ctx, log.LevelWarn, "Failed to initialize servers", log.Err(err))
		return 1
	}

	for _, p := range prepare {
		p(svc)
	}

	if err := svc.Run(); err != nil {
		logger.Log(ctx, log.LevelWarn, "Server exited with error", log.Err(err))
		return 1
	}

	logger.Log(ctx, log.LevelInfo, "Server exited cleanly")

	return 0
}
