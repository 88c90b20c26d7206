package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NCNU-OpenSource/meow-server/core/session"
)

// Controller is the slice of the session manager the daemon drives. The
// daemon treats its own StartChallenge calls exactly like user-initiated ones:
// same locking, same notification.
type Controller interface {
	StartChallenge(ctx context.Context) (session.StartResult, error)
	Active() bool
	SendReminderIfDue(ctx context.Context) bool
}

// Daemon is the perpetual background task of the trainer. While the session is
// idle it waits a randomized delay and auto-starts a challenge unless a user
// got there first; while a challenge is active it polls on a fixed interval
// and sends throttled reminder notifications.
type Daemon struct {
	controller Controller
	logger     *slog.Logger

	idleDelayMin time.Duration
	idleDelayMax time.Duration
	pollInterval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool

	// Observability metrics
	autoStarts atomic.Int64
	reminders  atomic.Int64
}

// DaemonStats provides metrics for monitoring and for tests that want to
// verify loop behavior without sleeping.
type DaemonStats struct {
	AutoStarts int64 // Challenges started by the daemon
	Reminders  int64 // Reminder notifications triggered by the daemon
	IsRunning  bool  // Whether the loop is currently running
}

// NewDaemon creates a scheduler daemon for the given controller.
func NewDaemon(controller Controller, opts ...DaemonOption) (*Daemon, error) {
	if controller == nil {
		return nil, ErrControllerNil
	}

	d := &Daemon{
		controller:   controller,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		idleDelayMin: 30 * time.Second,
		idleDelayMax: 60 * time.Second,
		pollInterval: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.idleDelayMin <= 0 || d.idleDelayMax < d.idleDelayMin {
		return nil, ErrInvalidDelayRange
	}
	if d.pollInterval <= 0 {
		return nil, ErrInvalidPollInterval
	}

	return d, nil
}

// NewDaemonFromConfig creates a Daemon from configuration.
// Additional options override config values.
func NewDaemonFromConfig(cfg Config, controller Controller, opts ...DaemonOption) (*Daemon, error) {
	allOpts := append([]DaemonOption{
		WithIdleDelay(cfg.IdleDelayMin, cfg.IdleDelayMax),
		WithPollInterval(cfg.PollInterval),
	}, opts...)

	return NewDaemon(controller, allOpts...)
}

// Start runs the loop until the context is cancelled. Blocking; use Run for
// the errgroup pattern or call this in a goroutine.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.cancel != nil {
		d.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	done := d.done
	d.mu.Unlock()

	d.running.Store(true)
	defer func() {
		d.running.Store(false)
		close(done)
	}()

	d.logger.InfoContext(ctx, "scheduler started",
		slog.Duration("idle_delay_min", d.idleDelayMin),
		slog.Duration("idle_delay_max", d.idleDelayMax),
		slog.Duration("poll_interval", d.pollInterval))

	for {
		if err := ctx.Err(); err != nil {
			d.logger.InfoContext(context.Background(), "scheduler stopping")
			return err
		}

		if !d.controller.Active() {
			d.idleIteration(ctx)
			continue
		}

		if d.controller.SendReminderIfDue(ctx) {
			d.reminders.Add(1)
		}

		if !sleepCtx(ctx, d.pollInterval) {
			continue // loop top returns ctx.Err()
		}
	}
}

// idleIteration sleeps a randomized delay and then attempts an auto-start.
// The post-sleep re-check is only an optimization to skip pointless
// provisioning when a user start raced ahead; StartChallenge itself is the
// atomic arbiter and rejects the loser of the remaining narrow window.
func (d *Daemon) idleIteration(ctx context.Context) {
	delay := d.randomIdleDelay()
	d.logger.DebugContext(ctx, "no active challenge, waiting before auto-start",
		slog.Duration("delay", delay))

	if !sleepCtx(ctx, delay) {
		return
	}

	if d.controller.Active() {
		// A user started a challenge while we slept; never overwrite it.
		return
	}

	res, err := d.controller.StartChallenge(ctx)
	switch {
	case err == nil:
		d.autoStarts.Add(1)
		d.logger.InfoContext(ctx, "auto-started challenge",
			slog.String("template_id", res.TemplateID))
	case errors.Is(err, session.ErrChallengeActive):
		d.logger.DebugContext(ctx, "user start won the race, skipping auto-start")
	default:
		// A failed auto-start must never terminate the loop; the next idle
		// iteration retries.
		d.logger.ErrorContext(ctx, "auto-start failed",
			slog.Any("error", err))
	}
}

// Stop cancels the loop and waits for it to exit.
func (d *Daemon) Stop() error {
	d.mu.Lock()
	if d.cancel == nil {
		d.mu.Unlock()
		return ErrNotStarted
	}
	cancel := d.cancel
	done := d.done
	d.cancel = nil
	d.mu.Unlock()

	cancel()
	<-done
	return nil
}

// Run provides errgroup compatibility: it returns a function that starts the
// daemon and shuts it down cleanly when the context is cancelled.
func (d *Daemon) Run(ctx context.Context) func() error {
	return func() error {
		err := d.Start(ctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	}
}

// Stats returns current daemon statistics. Thread-safe.
func (d *Daemon) Stats() DaemonStats {
	return DaemonStats{
		AutoStarts: d.autoStarts.Load(),
		Reminders:  d.reminders.Load(),
		IsRunning:  d.running.Load(),
	}
}

// randomIdleDelay picks a delay in [idleDelayMin, idleDelayMax].
func (d *Daemon) randomIdleDelay() time.Duration {
	if d.idleDelayMax <= d.idleDelayMin {
		return d.idleDelayMin
	}
	return d.idleDelayMin + rand.N(d.idleDelayMax-d.idleDelayMin)
}

// sleepCtx sleeps for the duration and reports whether it completed without
// the context being cancelled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
