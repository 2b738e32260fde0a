//go:build unit

package server_test

import (
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/opentelemetry"
	"github.com/raqolbi/hello-api/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app
}

func startAsync(sm *server.ServerManager) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- sm.StartWithGracefulShutdownWithError()
	}()

	return done
}

func waitStarted(t *testing.T, sm *server.ServerManager) {
	t.Helper()

	select {
	case <-sm.ServersStarted():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for servers to start")
	}
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for StartWithGracefulShutdownWithError")
		return nil
	}
}

func TestServerManagerChaining(t *testing.T) {
	sm1 := server.NewServerManager(nil, nil).WithHTTPServer(newTestApp(), ":0")
	sm2 := sm1.WithShutdownTimeout(time.Second).WithTriggers(server.NeverTrigger("never"))

	assert.Same(t, sm1, sm2)
	assert.Empty(t, sm1.Addr())
	assert.Nil(t, sm1.Coordinator())
}

func TestStartWithGracefulShutdownWithError_NoServers(t *testing.T) {
	err := server.NewServerManager(nil, nil).StartWithGracefulShutdownWithError()
	require.ErrorIs(t, err, server.ErrNoServersConfigured)
}

func TestStartWithGracefulShutdownWithError_CleanShutdown(t *testing.T) {
	shutdownChan := make(chan struct{})
	logger := &recordingLogger{}

	tl, err := opentelemetry.NewTelemetry(opentelemetry.TelemetryConfig{LibraryName: "test", Logger: log.NewNop()})
	require.NoError(t, err)

	sm := server.NewServerManager(tl, logger).
		WithHTTPServer(newTestApp(), "127.0.0.1:0").
		WithShutdownChannel(shutdownChan).
		WithShutdownTimeout(0)

	done := startAsync(sm)
	waitStarted(t, sm)

	require.NotEmpty(t, sm.Addr())

	close(shutdownChan)

	require.NoError(t, waitDone(t, done))
	assert.Equal(t, server.StateExited, sm.Coordinator().State())

	msgs := logger.messages()
	assert.Contains(t, msgs, "Listening on http://"+sm.Addr())
	assert.Contains(t, msgs, "Shutdown signal received, draining")
	assert.Equal(t, "Graceful shutdown completed", msgs[len(msgs)-1])

	record, ok := logger.find("Shutdown signal received, draining")
	require.True(t, ok)
	assert.Equal(t, "shutdown_channel", record.fields["trigger"])
}

func TestStartWithGracefulShutdownWithError_HealthDuringDrain(t *testing.T) {
	const drain = 600 * time.Millisecond

	shutdownChan := make(chan struct{})

	sm := server.NewServerManager(nil, nil).
		WithHTTPServer(newTestApp(), "127.0.0.1:0").
		WithShutdownChannel(shutdownChan).
		WithShutdownTimeout(drain)

	done := startAsync(sm)
	waitStarted(t, sm)

	firedAt := time.Now()
	close(shutdownChan)

	require.Eventually(t, func() bool {
		return sm.Coordinator().State() == server.StateDraining
	}, time.Second, 5*time.Millisecond)

	client := &http.Client{Timeout: time.Second}

	resp, err := client.Get("http://" + sm.Addr() + "/health")
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	client.CloseIdleConnections()

	require.NoError(t, waitDone(t, done))
	assert.GreaterOrEqual(t, time.Since(firedAt), drain)
}

func TestStartWithGracefulShutdownWithError_BindFailure(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer func() { _ = occupied.Close() }()

	sm := server.NewServerManager(nil, nil).
		WithHTTPServer(newTestApp(), occupied.Addr().String()).
		WithTriggers(server.NeverTrigger("never"))

	err = sm.StartWithGracefulShutdownWithError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")

	select {
	case <-sm.ServersStarted():
		t.Fatal("ServersStarted must not close when binding fails")
	default:
	}
}

func TestStartWithGracefulShutdownWithError_AlreadyStarted(t *testing.T) {
	shutdownChan := make(chan struct{})
	close(shutdownChan)

	sm := server.NewServerManager(nil, nil).
		WithHTTPServer(newTestApp(), "127.0.0.1:0").
		WithShutdownChannel(shutdownChan).
		WithShutdownTimeout(0)

	require.NoError(t, sm.StartWithGracefulShutdownWithError())
	require.ErrorIs(t, sm.StartWithGracefulShutdownWithError(), server.ErrAlreadyStarted)
}

func TestStartWithGracefulShutdownWithError_ArmingFailure(t *testing.T) {
	sm := server.NewServerManager(nil, nil).
		WithHTTPServer(newTestApp(), "127.0.0.1:0").
		WithTriggers(server.SignalTrigger("broken", nil))

	err := waitDone(t, startAsync(sm))
	require.ErrorIs(t, err, server.ErrTriggerUnavailable)
	assert.Equal(t, server.StateExited, sm.Coordinator().State())
}

func TestStartWithGracefulShutdownWithError_ServeLoopPanic(t *testing.T) {
	app := newTestApp()
	app.Hooks().OnListen(func(fiber.ListenData) error {
		panic("listen hook exploded")
	})

	logger := &recordingLogger{}

	sm := server.NewServerManager(nil, logger).
		WithHTTPServer(app, "127.0.0.1:0").
		WithTriggers(server.NeverTrigger("never")).
		WithShutdownTimeout(time.Hour)

	err := waitDone(t, startAsync(sm))
	require.ErrorIs(t, err, server.ErrServeLoopPanicked)

	_, terminated := logger.find("Server terminated")
	assert.True(t, terminated)

	_, drained := logger.find("Shutdown signal received, draining")
	assert.False(t, drained)

	assert.Equal(t, server.StateExited, sm.Coordinator().State())
}

func TestStartWithGracefulShutdownWithError_ServeLoopEndsDuringDrain(t *testing.T) {
	app := newTestApp()
	logger := &recordingLogger{}

	shutdownChan := make(chan struct{})

	sm := server.NewServerManager(nil, logger).
		WithHTTPServer(app, "127.0.0.1:0").
		WithShutdownChannel(shutdownChan).
		WithShutdownTimeout(300 * time.Millisecond)

	done := startAsync(sm)
	waitStarted(t, sm)

	resp, err := (&http.Client{Timeout: time.Second}).Get("http://" + sm.Addr() + "/health")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	close(shutdownChan)

	require.Eventually(t, func() bool {
		return sm.Coordinator().State() == server.StateDraining
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, app.Shutdown())

	err = waitDone(t, done)
	require.ErrorIs(t, err, server.ErrServerStopped)

	_, terminated := logger.find("Server terminated")
	assert.True(t, terminated)

	_, completed := logger.find("Graceful shutdown completed")
	assert.True(t, completed)
	assert.Equal(t, server.StateExited, sm.Coordinator().State())
}

func TestStartWithGracefulShutdownWithError_SyncErrorIsLogged(t *testing.T) {
	shutdownChan := make(chan struct{})
	close(shutdownChan)

	logger := &recordingLogger{syncErr: errors.New("sync failed")}

	sm := server.NewServerManager(nil, logger).
		WithHTTPServer(newTestApp(), "127.0.0.1:0").
		WithShutdownChannel(shutdownChan).
		WithShutdownTimeout(0)

	require.NoError(t, sm.StartWithGracefulShutdownWithError())

	_, ok := logger.find("Failed to sync logger")
	assert.True(t, ok)
}

func TestStartWithGracefulShutdown_ReturnsOnCleanShutdown(t *testing.T) {
	shutdown := make(chan struct{})

	sm := server.NewServerManager(nil, nil).
		WithHTTPServer(newTestApp(), "127.0.0.1:0").
		WithShutdownChannel(shutdown).
		WithShutdownTimeout(0)

	done := make(chan error, 1)

	go func() {
		sm.StartWithGracefulShutdown()
		done <- nil
	}()

	waitStarted(t, sm)
	close(shutdown)

	require.NoError(t, waitDone(t, done))
	assert.Equal(t, server.StateExited, sm.Coordinator().State())
}
