package scheduler

import (
	"log/slog"
	"time"
)

// Config holds scheduler daemon configuration.
type Config struct {
	// IdleDelayMin and IdleDelayMax bound the randomized wait before an
	// auto-start while the session is idle.
	IdleDelayMin time.Duration `env:"DAEMON_IDLE_DELAY_MIN" envDefault:"30s"`
	IdleDelayMax time.Duration `env:"DAEMON_IDLE_DELAY_MAX" envDefault:"60s"`
	// PollInterval is the fixed sleep between iterations while a challenge
	// is active.
	PollInterval time.Duration `env:"DAEMON_POLL_INTERVAL" envDefault:"10s"`
}

// DaemonOption configures the Daemon.
type DaemonOption func(*Daemon)

// WithIdleDelay sets the auto-start jitter window.
func WithIdleDelay(min, max time.Duration) DaemonOption {
	return func(d *Daemon) {
		d.idleDelayMin = min
		d.idleDelayMax = max
	}
}

// WithPollInterval sets the active-branch polling interval.
func WithPollInterval(interval time.Duration) DaemonOption {
	return func(d *Daemon) {
		d.pollInterval = interval
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) DaemonOption {
	return func(d *Daemon) {
		if log != nil {
			d.logger = log
		}
	}
}
