// Package daemon runs the dimmer's event loop.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/1broseidon/curtain/internal/dimmer"
)

// ErrStopped is returned when posting to a loop that has exited.
var ErrStopped = errors.New("event loop stopped")

// Dispatcher consumes actions on the loop goroutine.
type Dispatcher interface {
	Dispatch(a dimmer.Action)
}

type event struct {
	action dimmer.Action
	fn     func()
	done   chan struct{}
}

// LoopConfig holds configuration for the loop.
type LoopConfig struct {
	// Buffer is the event queue size.
	Buffer int
	Logger *slog.Logger
}

// Loop serializes every input onto one goroutine. It also implements
// dimmer.Scheduler; StartRefresh and StopRefresh must only be called from
// that goroutine, which is where the Controller runs.
type Loop struct {
	events chan event
	done   chan struct{}
	logger *slog.Logger

	ticker *time.Ticker
	tickC  <-chan time.Time
}

// NewLoop creates a loop. Run must be called to start it.
func NewLoop(cfg LoopConfig) *Loop {
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 64
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		events: make(chan event, buffer),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run dispatches events until ctx is cancelled. Blocks.
func (l *Loop) Run(ctx context.Context, d Dispatcher) {
	defer close(l.done)
	defer l.StopRefresh()

	l.logger.Info("event loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("event loop stopped")
			return
		case ev := <-l.events:
			l.handle(d, ev)
		case <-l.tickC:
			l.handle(d, event{action: dimmer.Tick{}})
		}
	}
}

func (l *Loop) handle(d Dispatcher, ev event) {
	if ev.done != nil {
		defer close(ev.done)
	}
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			l.logger.Error("event loop panic recovered", "error", err)
		}
	}()

	if ev.fn != nil {
		ev.fn()
		return
	}
	if _, ok := ev.action.(dimmer.Tick); !ok {
		l.logger.Debug("dispatch", "action", dimmer.Describe(ev.action))
	}
	d.Dispatch(ev.action)
}

// Post queues an action. It blocks while the queue is full.
func (l *Loop) Post(a dimmer.Action) error {
	select {
	case l.events <- event{action: a}:
		return nil
	case <-l.done:
		return ErrStopped
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case l.events <- event{fn: fn, done: done}:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// StartRefresh starts delivering Tick at the given interval.
func (l *Loop) StartRefresh(interval time.Duration) {
	l.StopRefresh()
	l.ticker = time.NewTicker(interval)
	l.tickC = l.ticker.C
}

// StopRefresh stops the ticker. No Tick is dispatched after it returns.
func (l *Loop) StopRefresh() {
	if l.ticker == nil {
		return
	}
	l.ticker.Stop()
	l.ticker = nil
	l.tickC = nil
}
