package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
)

// ErrTriggerUnavailable is returned when a trigger cannot be armed.
var ErrTriggerUnavailable = errors.New("termination trigger unavailable")

// Trigger is a source of termination requests.
//
// Arm subscribes to the source and returns a channel that is closed the first
// time it fires. A nil channel means the trigger can never fire on this
// platform. The subscription lives until ctx ends.
type Trigger interface {
	Name() string
	Arm(ctx context.Context) (<-chan struct{}, error)
}

type signalTrigger struct {
	name string
	sig  os.Signal
}

// SignalTrigger fires when the process receives sig.
//
// Once armed, every delivery of sig is consumed by the trigger until the
// arming context ends, so a repeated signal during the drain window does not
// fall back to the default OS action.
func SignalTrigger(name string, sig os.Signal) Trigger {
	return &signalTrigger{name: name, sig: sig}
}

func (t *signalTrigger) Name() string { return t.name }

func (t *signalTrigger) Arm(ctx context.Context) (<-chan struct{}, error) {
	if t.sig == nil {
		return nil, fmt.Errorf("%s: %w", t.name, ErrTriggerUnavailable)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, t.sig)

	fired := make(chan struct{})

	go func() {
		defer signal.Stop(sigCh)

		var once sync.Once

		for {
			select {
			case <-sigCh:
				once.Do(func() { close(fired) })
			case <-ctx.Done():
				return
			}
		}
	}()

	return fired, nil
}

type neverTrigger struct {
	name string
}

// NeverTrigger is a trigger that never fires. It stands in for sources the
// platform does not provide.
func NeverTrigger(name string) Trigger {
	return neverTrigger{name: name}
}

func (t neverTrigger) Name() string { return t.name }

func (t neverTrigger) Arm(_ context.Context) (<-chan struct{}, error) {
	return nil, nil
}

type channelTrigger struct {
	name string
	ch   <-chan struct{}
}

// ChannelTrigger fires when ch is closed or receives a value. A nil ch never
// fires.
func ChannelTrigger(name string, ch <-chan struct{}) Trigger {
	return &channelTrigger{name: name, ch: ch}
}

func (t *channelTrigger) Name() string { return t.name }

func (t *channelTrigger) Arm(ctx context.Context) (<-chan struct{}, error) {
	if t.ch == nil {
		return nil, nil
	}

	fired := make(chan struct{})

	go func() {
		select {
		case <-t.ch:
			close(fired)
		case <-ctx.Done():
		}
	}()

	return fired, nil
}

// InterruptTrigger fires on os.Interrupt (Ctrl+C).
func InterruptTrigger() Trigger {
	return SignalTrigger("interrupt", os.Interrupt)
}

// DefaultTriggers returns the interrupt and termination triggers.
func DefaultTriggers() []Trigger {
	return []Trigger{InterruptTrigger(), TerminationTrigger()}
}
