package session

import (
	"log/slog"
	"time"
)

// Config holds session manager configuration.
type Config struct {
	// Timeout is how long an unresolved challenge stays open before the next
	// Status call retires it as abandoned.
	Timeout time.Duration `env:"CHALLENGE_TIMEOUT" envDefault:"10m"`
	// NotifyInterval is the minimum spacing between reminder notifications.
	NotifyInterval time.Duration `env:"NOTIFY_INTERVAL" envDefault:"1h"`
	// LoginHint is the shell command shown to the trainee for entering the
	// sandbox, embedded in responses and notification bodies.
	LoginHint string `env:"SANDBOX_LOGIN_HINT" envDefault:"sudo docker exec -it trainee bash"`
}

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithTimeout sets the challenge timeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.timeout = d
	}
}

// WithNotifyInterval sets the minimum spacing between reminders.
func WithNotifyInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.notifyInterval = d
	}
}

// WithLoginHint sets the sandbox login hint.
func WithLoginHint(hint string) Option {
	return func(m *Manager) {
		m.loginHint = hint
	}
}

// WithManagerLogger sets the logger.
func WithManagerLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}
