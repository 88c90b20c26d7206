package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCNU-OpenSource/meow-server/core/scheduler"
	"github.com/NCNU-OpenSource/meow-server/core/session"
)

// fakeController is a thread-safe scheduler.Controller for loop tests.
type fakeController struct {
	mu          sync.Mutex
	active      bool
	startErr    error
	reminderDue bool
	starts      int
	reminders   int
}

func (f *fakeController) StartChallenge(context.Context) (session.StartResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return session.StartResult{}, f.startErr
	}
	f.active = true
	return session.StartResult{TemplateID: "T1"}, nil
}

func (f *fakeController) Active() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeController) SendReminderIfDue(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders++
	return f.reminderDue
}

func (f *fakeController) setActive(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active = v
}

func (f *fakeController) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

func (f *fakeController) reminderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reminders
}

func newTestDaemon(t *testing.T, ctrl *fakeController, opts ...scheduler.DaemonOption) *scheduler.Daemon {
	t.Helper()

	base := []scheduler.DaemonOption{
		scheduler.WithIdleDelay(5*time.Millisecond, 10*time.Millisecond),
		scheduler.WithPollInterval(5 * time.Millisecond),
	}
	d, err := scheduler.NewDaemon(ctrl, append(base, opts...)...)
	require.NoError(t, err)
	return d
}

func runDaemon(t *testing.T, d *scheduler.Daemon) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = d.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel
}

func TestNewDaemon(t *testing.T) {
	t.Parallel()

	t.Run("requires a controller", func(t *testing.T) {
		t.Parallel()
		_, err := scheduler.NewDaemon(nil)
		assert.ErrorIs(t, err, scheduler.ErrControllerNil)
	})

	t.Run("rejects inverted delay range", func(t *testing.T) {
		t.Parallel()
		_, err := scheduler.NewDaemon(&fakeController{},
			scheduler.WithIdleDelay(time.Minute, time.Second))
		assert.ErrorIs(t, err, scheduler.ErrInvalidDelayRange)
	})

	t.Run("rejects non-positive poll interval", func(t *testing.T) {
		t.Parallel()
		_, err := scheduler.NewDaemon(&fakeController{},
			scheduler.WithPollInterval(0))
		assert.ErrorIs(t, err, scheduler.ErrInvalidPollInterval)
	})
}

func TestDaemon_AutoStart(t *testing.T) {
	t.Parallel()

	t.Run("starts a challenge after the idle delay", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{}
		d := newTestDaemon(t, ctrl)
		runDaemon(t, d)

		assert.Eventually(t, func() bool {
			return ctrl.startCount() == 1 && ctrl.Active()
		}, time.Second, 2*time.Millisecond)

		// Once active it must not start another one.
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 1, ctrl.startCount())
		assert.Equal(t, int64(1), d.Stats().AutoStarts)
	})

	t.Run("skips auto-start when a user start raced ahead", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{}
		d := newTestDaemon(t, ctrl,
			scheduler.WithIdleDelay(40*time.Millisecond, 50*time.Millisecond))
		runDaemon(t, d)

		// Simulate a user-initiated start while the daemon sleeps.
		time.Sleep(10 * time.Millisecond)
		ctrl.setActive(true)

		time.Sleep(100 * time.Millisecond)
		assert.Equal(t, 0, ctrl.startCount())
	})

	t.Run("keeps looping when auto-start fails", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{startErr: errors.New("backend down")}
		d := newTestDaemon(t, ctrl)
		runDaemon(t, d)

		// The loop retries on the next idle iteration instead of dying.
		assert.Eventually(t, func() bool {
			return ctrl.startCount() >= 2
		}, time.Second, 2*time.Millisecond)
		assert.Equal(t, int64(0), d.Stats().AutoStarts)
	})

	t.Run("losing the start race is not an error", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{startErr: session.ErrChallengeActive}
		d := newTestDaemon(t, ctrl)
		runDaemon(t, d)

		assert.Eventually(t, func() bool {
			return ctrl.startCount() >= 1
		}, time.Second, 2*time.Millisecond)
		assert.Equal(t, int64(0), d.Stats().AutoStarts)
	})
}

func TestDaemon_Reminders(t *testing.T) {
	t.Parallel()

	t.Run("polls reminders while a challenge is active", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{active: true, reminderDue: true}
		d := newTestDaemon(t, ctrl)
		runDaemon(t, d)

		assert.Eventually(t, func() bool {
			return ctrl.reminderCount() >= 3
		}, time.Second, 2*time.Millisecond)
		assert.GreaterOrEqual(t, d.Stats().Reminders, int64(3))
		assert.Equal(t, 0, ctrl.startCount())
	})
}

func TestDaemon_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("start twice fails", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{active: true}
		d := newTestDaemon(t, ctrl)
		runDaemon(t, d)

		assert.Eventually(t, func() bool {
			return d.Stats().IsRunning
		}, time.Second, time.Millisecond)

		err := d.Start(context.Background())
		assert.ErrorIs(t, err, scheduler.ErrAlreadyStarted)
	})

	t.Run("stop terminates the loop", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{active: true}
		d := newTestDaemon(t, ctrl)
		runDaemon(t, d)

		assert.Eventually(t, func() bool {
			return d.Stats().IsRunning
		}, time.Second, time.Millisecond)

		require.NoError(t, d.Stop())
		assert.False(t, d.Stats().IsRunning)
	})

	t.Run("stop before start fails", func(t *testing.T) {
		t.Parallel()

		d := newTestDaemon(t, &fakeController{})
		assert.ErrorIs(t, d.Stop(), scheduler.ErrNotStarted)
	})

	t.Run("run returns nil on context cancellation", func(t *testing.T) {
		t.Parallel()

		ctrl := &fakeController{active: true}
		d := newTestDaemon(t, ctrl)

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- d.Run(ctx)()
		}()

		assert.Eventually(t, func() bool {
			return d.Stats().IsRunning
		}, time.Second, time.Millisecond)

		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("daemon did not stop after context cancellation")
		}
	})
}
