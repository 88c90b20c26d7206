package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/NCNU-OpenSource/meow-server/core/catalog"
	"github.com/NCNU-OpenSource/meow-server/core/chaos"
	"github.com/NCNU-OpenSource/meow-server/core/notification"
)

// Manager owns the session record and implements the challenge lifecycle:
// start, status (with lazy timeout and completion detection), hints, and
// reminder throttling for the scheduler. One mutex serializes every read and
// write of the record; backend completion checks and notifications run outside
// it so status and hint stay responsive during slow sandbox I/O.
type Manager struct {
	catalog catalog.Catalog
	backend chaos.Backend
	sender  notification.Sender
	logger  *slog.Logger

	timeout        time.Duration
	notifyInterval time.Duration
	loginHint      string

	mu      sync.Mutex
	current Session
}

// NewManager creates a session manager. Catalog, backend and sender are required.
func NewManager(cat catalog.Catalog, backend chaos.Backend, sender notification.Sender, opts ...Option) (*Manager, error) {
	if cat == nil || backend == nil || sender == nil {
		return nil, ErrMissingDependency
	}

	m := &Manager{
		catalog:        cat,
		backend:        backend,
		sender:         sender,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:        10 * time.Minute,
		notifyInterval: time.Hour,
		loginHint:      "sudo docker exec -it trainee bash",
	}
	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// NewManagerFromConfig creates a Manager from configuration.
// Additional options override config values.
func NewManagerFromConfig(cfg Config, cat catalog.Catalog, backend chaos.Backend, sender notification.Sender, opts ...Option) (*Manager, error) {
	allOpts := append([]Option{
		WithTimeout(cfg.Timeout),
		WithNotifyInterval(cfg.NotifyInterval),
		WithLoginHint(cfg.LoginHint),
	}, opts...)

	return NewManager(cat, backend, sender, allOpts...)
}

// StartChallenge activates a new challenge: provision the sandbox, pick a
// template, fire its chaos command and arm the session timer, all under the
// lock so concurrent starts serialize and exactly one observes the
// idle-to-active transition. The incident notification goes out after the lock
// is released; a delivery failure is logged, never surfaced.
//
// Returns ErrChallengeActive while a challenge is outstanding, ErrNoTemplates
// for an empty catalog, and the backend's provisioning error (tagged
// chaos.ErrProvisionFailed) when the sandbox cannot be prepared. On any error
// the session record is left untouched.
func (m *Manager) StartChallenge(ctx context.Context) (StartResult, error) {
	m.mu.Lock()

	if m.current.Active {
		m.mu.Unlock()
		return StartResult{}, ErrChallengeActive
	}

	if err := m.backend.Provision(ctx); err != nil {
		m.mu.Unlock()
		return StartResult{}, err
	}

	tpl, ok := m.catalog.Select()
	if !ok {
		m.mu.Unlock()
		return StartResult{}, ErrNoTemplates
	}

	// Fire and forget: the sandbox owns the outcome of the chaos command.
	if err := m.backend.Inject(ctx, tpl.ChaosCmd); err != nil {
		m.logger.WarnContext(ctx, "fault injection reported an error",
			slog.String("template_id", tpl.ID),
			slog.Any("error", err))
	}

	now := time.Now()
	m.current = Session{
		Active:         true,
		ID:             uuid.New(),
		TemplateID:     tpl.ID,
		StartedAt:      now,
		LastNotifiedAt: now, // activation counts as the first notification
		Timeout:        m.timeout,
		NotifyInterval: m.notifyInterval,
	}

	res := StartResult{
		ID:          m.current.ID,
		TemplateID:  tpl.ID,
		Description: tpl.Description,
		Explain:     tpl.Explain,
		HintsCount:  len(tpl.Hints),
		Timeout:     m.timeout,
		StartedAt:   now,
		LoginHint:   m.loginHint,
	}
	m.mu.Unlock()

	if err := m.sender.Send(ctx, notification.IncidentMessage(tpl, now, m.loginHint)); err != nil {
		m.logger.ErrorContext(ctx, "incident notification failed",
			slog.String("template_id", tpl.ID),
			slog.Any("error", err))
	}

	m.logger.InfoContext(ctx, "challenge started",
		slog.String("challenge_id", res.ID.String()),
		slog.String("template_id", tpl.ID),
		slog.Duration("timeout", m.timeout))

	return res, nil
}

// Status reports the current challenge state and, as a side effect, performs
// timeout and completion detection. Timeout is enforced lazily here: the
// challenge is retired on the first Status call at or after expiry, there is
// no independent timer.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	m.mu.Lock()

	if !m.current.Active {
		m.mu.Unlock()
		return Status{State: StateIdle}, nil
	}

	now := time.Now()
	elapsed := now.Sub(m.current.StartedAt)
	remaining := m.current.Timeout - elapsed

	if remaining <= 0 {
		id := m.current.ID
		tplID := m.current.TemplateID
		m.current = Session{}
		m.mu.Unlock()

		m.logger.InfoContext(ctx, "challenge timed out",
			slog.String("challenge_id", id.String()),
			slog.String("template_id", tplID),
			slog.Duration("elapsed", elapsed))

		return Status{State: StateTimeout, Elapsed: elapsed, TemplateID: tplID}, nil
	}

	id := m.current.ID
	tplID := m.current.TemplateID
	m.mu.Unlock()

	tpl, ok := m.catalog.Get(tplID)
	if !ok {
		return Status{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, tplID)
	}

	// The completion check runs commands inside the sandbox and may be slow;
	// it must happen outside the lock so concurrent status/hint calls and the
	// scheduler are not blocked on it.
	resolved, err := m.backend.IsResolved(ctx, tpl)
	if err != nil {
		m.logger.WarnContext(ctx, "completion check failed, treating as unresolved",
			slog.String("template_id", tplID),
			slog.Any("error", err))
		resolved = false
	}

	if resolved {
		m.mu.Lock()
		m.retireLocked(id)
		m.mu.Unlock()

		m.logger.InfoContext(ctx, "challenge resolved",
			slog.String("challenge_id", id.String()),
			slog.String("template_id", tplID),
			slog.Duration("elapsed", elapsed))

		return Status{
			State:       StateSuccess,
			TemplateID:  tplID,
			Description: tpl.Description,
			Elapsed:     elapsed,
		}, nil
	}

	return Status{
		State:       StatePending,
		Active:      true,
		TemplateID:  tplID,
		Description: tpl.Description,
		Elapsed:     elapsed,
		Remaining:   remaining,
	}, nil
}

// Hint returns the hint at the given step for the active template. Steps past
// the last hint yield a Done result rather than an error. Side-effect-free.
func (m *Manager) Hint(step int) (HintResult, error) {
	m.mu.Lock()
	if !m.current.Active {
		m.mu.Unlock()
		return HintResult{}, ErrNoActiveChallenge
	}
	tplID := m.current.TemplateID
	m.mu.Unlock()

	tpl, ok := m.catalog.Get(tplID)
	if !ok {
		return HintResult{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, tplID)
	}

	if step < 0 || step >= len(tpl.Hints) {
		return HintResult{Step: step, Done: true}, nil
	}

	return HintResult{
		Step:    step,
		Text:    tpl.Hints[step],
		HasMore: step < len(tpl.Hints)-1,
	}, nil
}

// Active reports whether a challenge is currently outstanding.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.Active
}

// SendReminderIfDue sends a reminder notification when the notify interval has
// elapsed since the last one, and reports whether a reminder was attempted.
// The send happens outside the lock; LastNotifiedAt is bumped afterwards even
// when delivery failed, so a broken mail path throttles like a working one
// instead of retrying every poll.
func (m *Manager) SendReminderIfDue(ctx context.Context) bool {
	now := time.Now()

	m.mu.Lock()
	if !m.current.Active || now.Sub(m.current.LastNotifiedAt) < m.current.NotifyInterval {
		m.mu.Unlock()
		return false
	}
	id := m.current.ID
	tplID := m.current.TemplateID
	elapsed := now.Sub(m.current.StartedAt)
	m.mu.Unlock()

	var desc string
	if tpl, ok := m.catalog.Get(tplID); ok {
		desc = tpl.Description
	}

	if err := m.sender.Send(ctx, notification.ReminderMessage(tplID, desc, elapsed, m.loginHint)); err != nil {
		m.logger.ErrorContext(ctx, "reminder notification failed",
			slog.String("template_id", tplID),
			slog.Any("error", err))
	}

	m.mu.Lock()
	if m.current.Active && m.current.ID == id {
		m.current.LastNotifiedAt = now
	}
	m.mu.Unlock()

	return true
}

// retireLocked clears the session if it still belongs to the given activation.
// Idempotent: clearing an already-retired or replaced session is a no-op, so a
// slow success path can never wipe a newer challenge. Callers hold the lock.
func (m *Manager) retireLocked(id uuid.UUID) {
	if m.current.Active && m.current.ID == id {
		m.current = Session{}
	}
}
