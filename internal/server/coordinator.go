package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/raqolbi/hello-api/internal/log"
)

// ErrAlreadyRequested is returned by every WaitForShutdown call after the first.
var ErrAlreadyRequested = errors.New("shutdown already requested")

// State is the lifecycle position of a ShutdownCoordinator.
//
// A normal shutdown moves Running → ShutdownRequested → Draining → Exited.
// When the wait is aborted before any trigger fires, for instance by a serve
// loop failure, the coordinator goes from Running straight to Exited and no
// drain happens.
type State int32

const (
	StateRunning State = iota
	StateShutdownRequested
	StateDraining
	StateExited
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateShutdownRequested:
		return "shutdown_requested"
	case StateDraining:
		return "draining"
	case StateExited:
		return "exited"
	default:
		return "unknown"
	}
}

// ShutdownCoordinator turns the first of several termination triggers into a
// single shutdown event followed by a fixed drain window.
type ShutdownCoordinator struct {
	drain     time.Duration
	logger    log.Logger
	triggers  []Trigger
	state     atomic.Int32
	requested atomic.Bool

	armCtx      context.Context
	release     context.CancelFunc
	releaseOnce sync.Once
}

// NewShutdownCoordinator builds a coordinator. A negative drain is treated as
// zero and an empty trigger list means DefaultTriggers.
func NewShutdownCoordinator(drain time.Duration, logger log.Logger, triggers ...Trigger) *ShutdownCoordinator {
	if drain < 0 {
		drain = 0
	}

	if logger == nil {
		logger = log.NewNop()
	}

	if len(triggers) == 0 {
		triggers = DefaultTriggers()
	}

	armCtx, release := context.WithCancel(context.Background())

	return &ShutdownCoordinator{
		drain:    drain,
		logger:   logger,
		triggers: triggers,
		armCtx:   armCtx,
		release:  release,
	}
}

// Drain returns the drain window.
func (sc *ShutdownCoordinator) Drain() time.Duration {
	return sc.drain
}

// State returns the current lifecycle state.
func (sc *ShutdownCoordinator) State() State {
	return State(sc.state.Load())
}

// WaitForShutdown arms every trigger, blocks until one fires, logs the
// winner and sleeps for the drain window. It returns the winning trigger's
// name.
//
// If ctx ends before any trigger fires, the context cause is returned and no
// drain happens. Only the first call waits; later calls return
// ErrAlreadyRequested.
func (sc *ShutdownCoordinator) WaitForShutdown(ctx context.Context) (string, error) {
	if !sc.requested.CompareAndSwap(false, true) {
		return "", ErrAlreadyRequested
	}

	winner := make(chan string, 1)

	for _, t := range sc.triggers {
		fired, err := t.Arm(sc.armCtx)
		if err != nil {
			sc.Release()

			return "", fmt.Errorf("arm %s trigger: %w", t.Name(), err)
		}

		if fired == nil {
			continue
		}

		go func(name string, fired <-chan struct{}) {
			select {
			case <-fired:
				select {
				case winner <- name:
				default:
				}
			case <-sc.armCtx.Done():
			}
		}(t.Name(), fired)
	}

	var name string

	select {
	case name = <-winner:
	case <-ctx.Done():
		return "", context.Cause(ctx)
	}

	sc.state.CompareAndSwap(int32(StateRunning), int32(StateShutdownRequested))

	sc.logger.Log(ctx, log.LevelInfo, "Shutdown signal received, draining",
		log.String("trigger", name),
		log.Int("timeout_seconds", int(sc.drain/time.Second)),
	)

	sc.state.CompareAndSwap(int32(StateShutdownRequested), int32(StateDraining))

	if sc.drain > 0 {
		timer := time.NewTimer(sc.drain)
		<-timer.C
	}

	return name, nil
}

// MarkExited records that the process finished shutting down.
func (sc *ShutdownCoordinator) MarkExited() {
	sc.state.Store(int32(StateExited))
}

// Release ends every trigger subscription. Signals received afterwards get
// the default OS behaviour again.
func (sc *ShutdownCoordinator) Release() {
	sc.releaseOnce.Do(sc.release)
}
