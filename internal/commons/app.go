package commons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/raqolbi/hello-api/internal/log"
	"github.com/raqolbi/hello-api/internal/runtime"
)

var (
	// ErrLoggerNil is returned by RunWithError when no logger was configured.
	ErrLoggerNil = errors.New("logger is nil")
	// ErrNilLauncher is returned when a launcher method is called on a nil receiver.
	ErrNilLauncher = errors.New("launcher is nil")
	ErrEmptyApp    = errors.New("app name is empty")
	ErrNilApp      = errors.New("app is nil")
	// ErrConfigFailed wraps the errors collected while applying launcher options.
	ErrConfigFailed = errors.New("launcher configuration failed")
	// ErrAppPanicked is reported for an app whose Run panicked.
	ErrAppPanicked = errors.New("app panicked")
)

// App is a long-running component started by the Launcher, such as the
// HTTP server.
type App interface {
	Run(launcher *Launcher) error
}

type namedApp struct {
	name string
	app  App
}

// LauncherOption configures a Launcher.
type LauncherOption func(l *Launcher)

func WithLogger(logger log.Logger) LauncherOption {
	return func(l *Launcher) {
		l.Logger = logger
	}
}

// RunApp registers app under name. Registration errors are reported by
// RunWithError.
func RunApp(name string, app App) LauncherOption {
	return func(l *Launcher) {
		if err := l.Add(name, app); err != nil {
			l.configErrors = append(l.configErrors, fmt.Errorf("add app %q: %w", name, err))
		}
	}
}

// Launcher starts every registered App concurrently and waits for all of them.
type Launcher struct {
	Logger       log.Logger
	apps         []namedApp
	configErrors []error
}

// NewLauncher applies opts to an empty Launcher.
func NewLauncher(opts ...LauncherOption) *Launcher {
	l := &Launcher{}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Add registers a under appName.
func (l *Launcher) Add(appName string, a App) error {
	switch {
	case l == nil:
		return ErrNilLauncher
	case strings.TrimSpace(appName) == "":
		return ErrEmptyApp
	case a == nil:
		return ErrNilApp
	}

	l.apps = append(l.apps, namedApp{name: appName, app: a})

	return nil
}

// RunWithError runs the apps and blocks until every one has returned. The
// result joins the failure of each app, including panics, so the caller can
// map any of them to a non-zero exit status.
func (l *Launcher) RunWithError() error {
	if l == nil {
		return ErrNilLauncher
	}

	if l.Logger == nil {
		return ErrLoggerNil
	}

	if len(l.configErrors) > 0 {
		return errors.Join(append([]error{ErrConfigFailed}, l.configErrors...)...)
	}

	ctx := context.Background()

	l.Logger.Log(ctx, log.LevelInfo, "starting apps", log.Int("count", len(l.apps)))

	results := make([]error, len(l.apps))

	var wg sync.WaitGroup

	for i, na := range l.apps {
		wg.Add(1)

		runtime.SafeGoWithContextAndComponent(ctx, l.Logger, "launcher", "run_app_"+na.name, runtime.KeepRunning,
			func(ctx context.Context) {
				defer wg.Done()

				results[i] = l.runOne(ctx, na)
			})
	}

	wg.Wait()

	l.Logger.Log(ctx, log.LevelInfo, "launcher terminated")

	return errors.Join(results...)
}

// runOne reports a panicking app as ErrAppPanicked and logs its stack.
func (l *Launcher) runOne(ctx context.Context, na namedApp) (err error) {
	logger := l.Logger.With(log.String("app", na.name))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("app %q: %w", na.name, ErrAppPanicked)

			runtime.HandlePanicValue(ctx, logger, r, "launcher", "run_app_"+na.name)
		}
	}()

	logger.Log(ctx, log.LevelInfo, "app starting")

	if runErr := na.app.Run(l); runErr != nil {
		logger.Log(ctx, log.LevelWarn, "app error", log.Err(runErr))

		return fmt.Errorf("app %q: %w", na.name, runErr)
	}

	logger.Log(ctx, log.LevelInfo, "app finished")

	return nil
}
