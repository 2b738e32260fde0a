package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/opentelemetry"
	"github.com/raqolbi/hello-api/internal/runtime"
)

const defaultShutdownTimeout = 10 * time.Second

var (
	// ErrNoServersConfigured indicates no server was configured for the manager.
	ErrNoServersConfigured = errors.New("no servers configured: use WithHTTPServer()")
	// ErrAlreadyStarted is returned when the manager is started twice.
	ErrAlreadyStarted = errors.New("server manager already started")
	// ErrServerStopped is the cause recorded when the serve loop returns on its own.
	ErrServerStopped = errors.New("serve loop returned unexpectedly")
	// ErrServeLoopPanicked is the cause recorded when the serve loop panics.
	ErrServeLoopPanicked = errors.New("serve loop panicked")
)

// ServerManager runs the HTTP server and shuts it down gracefully when a
// termination trigger fires.
type ServerManager struct {
	httpServer         *fiber.App
	telemetry          *opentelemetry.Telemetry
	logger             log.Logger
	httpAddress        string
	triggers           []Trigger
	serversStarted     chan struct{}
	serversStartedOnce sync.Once
	shutdownTimeout    time.Duration
	started            atomic.Bool
	stopping           atomic.Bool
	serveErr           atomic.Pointer[error]
	coordinator        *ShutdownCoordinator

	mu   sync.RWMutex
	addr net.Addr
}

// NewServerManager creates a new instance of ServerManager.
// If logger is nil, a no-op logger is used.
func NewServerManager(telemetry *opentelemetry.Telemetry, logger log.Logger) *ServerManager {
	if logger == nil {
		logger = log.NewNop()
	}

	return &ServerManager{
		telemetry:       telemetry,
		logger:          logger,
		serversStarted:  make(chan struct{}),
		shutdownTimeout: defaultShutdownTimeout,
	}
}

// WithHTTPServer configures the HTTP server for the ServerManager.
func (sm *ServerManager) WithHTTPServer(app *fiber.App, address string) *ServerManager {
	sm.httpServer = app
	sm.httpAddress = address

	return sm
}

// WithTriggers adds termination triggers. Without any, DefaultTriggers is used.
func (sm *ServerManager) WithTriggers(triggers ...Trigger) *ServerManager {
	sm.triggers = append(sm.triggers, triggers...)

	return sm
}

// WithShutdownChannel adds a trigger that fires when ch is closed, so tests
// can shut down deterministically instead of relying on OS signals.
func (sm *ServerManager) WithShutdownChannel(ch <-chan struct{}) *ServerManager {
	return sm.WithTriggers(ChannelTrigger("shutdown_channel", ch))
}

// WithShutdownTimeout sets the drain window. It is also the grace period
// in-flight requests get once the listener is closed. Defaults to 10 seconds.
func (sm *ServerManager) WithShutdownTimeout(d time.Duration) *ServerManager {
	sm.shutdownTimeout = d

	return sm
}

// ServersStarted returns a channel that is closed once the listener is bound
// and the serve loop launched.
func (sm *ServerManager) ServersStarted() <-chan struct{} {
	return sm.serversStarted
}

// Addr returns the bound listener address, or "" before binding.
func (sm *ServerManager) Addr() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if sm.addr == nil {
		return ""
	}

	return sm.addr.String()
}

// Coordinator returns the shutdown coordinator, or nil before start.
func (sm *ServerManager) Coordinator() *ShutdownCoordinator {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.coordinator
}

func (sm *ServerManager) validateConfiguration() error {
	if sm.httpServer == nil {
		return ErrNoServersConfigured
	}

	return nil
}

// StartWithGracefulShutdownWithError binds the listener, serves until a
// termination trigger fires, drains and shuts down. It returns nil on a clean
// shutdown and an error when configuration, binding, trigger arming or the
// serve loop fails.
func (sm *ServerManager) StartWithGracefulShutdownWithError() error {
	if err := sm.validateConfiguration(); err != nil {
		return err
	}

	if !sm.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	coordinator := NewShutdownCoordinator(sm.shutdownTimeout, sm.logger, sm.triggers...)

	ln, err := net.Listen("tcp", sm.httpAddress)
	if err != nil {
		coordinator.Release()

		return fmt.Errorf("listen on %s: %w", sm.httpAddress, err)
	}

	sm.mu.Lock()
	sm.addr = ln.Addr()
	sm.coordinator = coordinator
	sm.mu.Unlock()

	sm.logInfof("Listening on http://%s", ln.Addr().String())

	waitCtx, stopWaiting := context.WithCancelCause(context.Background())
	defer stopWaiting(nil)

	runtime.SafeGoWithContextAndComponent(
		context.Background(),
		sm.logger,
		"server",
		"serve_http",
		runtime.KeepRunning,
		func(_ context.Context) {
			err := ErrServeLoopPanicked

			defer func() { sm.serveLoopEnded(err, stopWaiting) }()

			err = sm.httpServer.Listener(ln)
		},
	)

	sm.serversStartedOnce.Do(func() {
		close(sm.serversStarted)
	})

	_, waitErr := coordinator.WaitForShutdown(waitCtx)

	sm.executeShutdown(coordinator)

	// Normally already closed by fiber; this covers a serve loop that never
	// reached Serve.
	_ = ln.Close()

	// A serve error during the drain window arrives after the wait resolved.
	if serveErr := sm.serveErr.Load(); serveErr != nil && !errors.Is(waitErr, *serveErr) {
		return errors.Join(waitErr, *serveErr)
	}

	return waitErr
}

// StartWithGracefulShutdown is StartWithGracefulShutdownWithError that
// terminates the process with exit status 1 on error.
func (sm *ServerManager) StartWithGracefulShutdown() {
	if err := sm.StartWithGracefulShutdownWithError(); err != nil {
		sm.logger.Log(context.Background(), log.LevelError, "Server failed", log.Err(err))
		_ = sm.logger.Sync(context.Background())

		os.Exit(1)
	}
}

func (sm *ServerManager) serveLoopEnded(err error, stopWaiting context.CancelCauseFunc) {
	if sm.stopping.Load() {
		return
	}

	if err == nil {
		err = ErrServerStopped
	}

	sm.logger.Log(context.Background(), log.LevelError, "Server terminated", log.Err(err))

	wrapped := fmt.Errorf("http server: %w", err)
	sm.serveErr.Store(&wrapped)

	stopWaiting(wrapped)
}

// executeShutdown closes the listener, waits for in-flight requests, flushes
// telemetry and the logger, then releases the triggers.
func (sm *ServerManager) executeShutdown(coordinator *ShutdownCoordinator) {
	sm.stopping.Store(true)

	sm.logInfo("Shutting down HTTP server...")

	// fiber treats a zero timeout as no deadline at all.
	timeout := max(sm.shutdownTimeout, time.Millisecond)

	if err := sm.httpServer.ShutdownWithTimeout(timeout); err != nil {
		sm.logger.Log(context.Background(), log.LevelWarn, "HTTP server shutdown incomplete", log.Err(err))
	}

	if sm.telemetry != nil {
		sm.logInfo("Shutting down telemetry...")
		sm.telemetry.ShutdownTelemetry()
	}

	if err := sm.logger.Sync(context.Background()); err != nil {
		sm.logger.Log(context.Background(), log.LevelWarn, "Failed to sync logger", log.Err(err))
	}

	coordinator.Release()
	coordinator.MarkExited()

	sm.logInfo("Graceful shutdown completed")
}

func (sm *ServerManager) logInfo(msg string) {
	sm.logger.Log(context.Background(), log.LevelInfo, msg)
}

func (sm *ServerManager) logInfof(format string, args ...any) {
	sm.logger.Log(context.Background(), log.LevelInfo, fmt.Sprintf(format, args...))
}
