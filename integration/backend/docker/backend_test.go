package docker

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCNU-OpenSource/meow-server/core/catalog"
	"github.com/NCNU-OpenSource/meow-server/core/chaos"
)

// call records one docker invocation seen by the stub runner.
type call struct {
	binary string
	args   []string
}

func newTestBackend(t *testing.T, run func(ctx context.Context, binary string, args ...string) ([]byte, error)) (*Backend, *[]call) {
	t.Helper()

	b, err := New(Config{Container: "trainee"})
	require.NoError(t, err)

	calls := &[]call{}
	b.runCmd = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		*calls = append(*calls, call{binary: binary, args: args})
		return run(ctx, binary, args...)
	}
	return b, calls
}

// realExitError produces a genuine *exec.ExitError for stubbing non-zero exits.
func realExitError(t *testing.T) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit 1").Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	return err
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a container name", func(t *testing.T) {
		t.Parallel()
		_, err := New(Config{})
		assert.ErrorIs(t, err, chaos.ErrProvisionFailed)
	})

	t.Run("defaults binary and timeout", func(t *testing.T) {
		t.Parallel()
		b, err := New(Config{Container: "trainee"})
		require.NoError(t, err)
		assert.Equal(t, "docker", b.binary)
		assert.Positive(t, b.execTimeout)
	})
}

func TestBackend_Provision(t *testing.T) {
	t.Parallel()

	t.Run("no-op when the container is already running", func(t *testing.T) {
		t.Parallel()

		b, calls := newTestBackend(t, func(_ context.Context, _ string, args ...string) ([]byte, error) {
			return []byte("true\n"), nil
		})

		require.NoError(t, b.Provision(context.Background()))
		require.Len(t, *calls, 1)
		assert.Equal(t, []string{"inspect", "-f", "{{.State.Running}}", "trainee"}, (*calls)[0].args)
	})

	t.Run("starts a stopped container", func(t *testing.T) {
		t.Parallel()

		b, calls := newTestBackend(t, func(_ context.Context, _ string, args ...string) ([]byte, error) {
			if args[0] == "inspect" {
				return []byte("false\n"), nil
			}
			return nil, nil
		})

		require.NoError(t, b.Provision(context.Background()))
		require.Len(t, *calls, 2)
		assert.Equal(t, []string{"start", "trainee"}, (*calls)[1].args)
	})

	t.Run("failure carries the docker diagnostic", func(t *testing.T) {
		t.Parallel()

		b, _ := newTestBackend(t, func(_ context.Context, _ string, args ...string) ([]byte, error) {
			if args[0] == "inspect" {
				return nil, errors.New("no such container")
			}
			return []byte("Error response from daemon: no such container: trainee"), errors.New("exit status 1")
		})

		err := b.Provision(context.Background())
		assert.ErrorIs(t, err, chaos.ErrProvisionFailed)
		assert.Contains(t, err.Error(), "no such container")
	})
}

func TestBackend_Inject(t *testing.T) {
	t.Parallel()

	t.Run("runs the chaos command inside the sandbox", func(t *testing.T) {
		t.Parallel()

		b, calls := newTestBackend(t, func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return nil, nil
		})

		require.NoError(t, b.Inject(context.Background(), "rm -f /etc/resolv.conf"))
		require.Len(t, *calls, 1)
		assert.Equal(t, []string{"exec", "trainee", "sh", "-c", "rm -f /etc/resolv.conf"}, (*calls)[0].args)
	})

	t.Run("wraps execution failures", func(t *testing.T) {
		t.Parallel()

		b, _ := newTestBackend(t, func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return []byte("oci runtime error"), errors.New("exit status 126")
		})

		err := b.Inject(context.Background(), "true")
		assert.ErrorIs(t, err, chaos.ErrInjectFailed)
		assert.Contains(t, err.Error(), "oci runtime error")
	})
}

func TestBackend_IsResolved(t *testing.T) {
	t.Parallel()

	tpl := catalog.Template{ID: "disk-full", CheckCmd: "test ! -f /tmp/bigfile"}

	t.Run("exit zero means resolved", func(t *testing.T) {
		t.Parallel()

		b, calls := newTestBackend(t, func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return nil, nil
		})

		resolved, err := b.IsResolved(context.Background(), tpl)
		require.NoError(t, err)
		assert.True(t, resolved)
		assert.Equal(t, []string{"exec", "trainee", "sh", "-c", tpl.CheckCmd}, (*calls)[0].args)
	})

	t.Run("non-zero exit means not resolved, not an error", func(t *testing.T) {
		t.Parallel()

		exitErr := realExitError(t)
		b, _ := newTestBackend(t, func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return nil, exitErr
		})

		resolved, err := b.IsResolved(context.Background(), tpl)
		require.NoError(t, err)
		assert.False(t, resolved)
	})

	t.Run("a check that cannot run is an error", func(t *testing.T) {
		t.Parallel()

		b, _ := newTestBackend(t, func(_ context.Context, _ string, _ ...string) ([]byte, error) {
			return nil, errors.New("docker daemon unreachable")
		})

		_, err := b.IsResolved(context.Background(), tpl)
		assert.ErrorIs(t, err, chaos.ErrCheckFailed)
	})
}
