package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/NCNU-OpenSource/meow-server/core/catalog"
	"github.com/NCNU-OpenSource/meow-server/core/chaos"
)

// Backend implements chaos.Backend over the docker CLI: faults are injected
// and checked by running shell commands inside the sandbox container.
type Backend struct {
	container   string
	binary      string
	execTimeout time.Duration
	logger      *slog.Logger

	// runCmd executes a docker invocation and returns combined output.
	// Replaceable in tests.
	runCmd func(ctx context.Context, binary string, args ...string) ([]byte, error)
}

// Option configures the Backend.
type Option func(*Backend)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Backend) {
		if log != nil {
			b.logger = log
		}
	}
}

// New creates a docker-CLI sandbox backend.
func New(cfg Config, opts ...Option) (*Backend, error) {
	if cfg.Container == "" {
		return nil, fmt.Errorf("%w: container name is required", chaos.ErrProvisionFailed)
	}

	b := &Backend{
		container:   cfg.Container,
		binary:      cfg.Binary,
		execTimeout: cfg.ExecTimeout,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		runCmd:      runCombined,
	}
	if b.binary == "" {
		b.binary = "docker"
	}
	if b.execTimeout <= 0 {
		b.execTimeout = 30 * time.Second
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Provision ensures the sandbox container is running, starting it when it is
// stopped. Output of a failed start is carried as the diagnostic.
func (b *Backend) Provision(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.execTimeout)
	defer cancel()

	out, err := b.runCmd(ctx, b.binary, "inspect", "-f", "{{.State.Running}}", b.container)
	if err == nil && strings.TrimSpace(string(out)) == "true" {
		return nil
	}

	b.logger.InfoContext(ctx, "sandbox not running, starting it",
		slog.String("container", b.container))

	if out, err := b.runCmd(ctx, b.binary, "start", b.container); err != nil {
		return fmt.Errorf("%w: docker start %s: %v: %s",
			chaos.ErrProvisionFailed, b.container, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Inject runs the chaos command inside the sandbox.
func (b *Backend) Inject(ctx context.Context, cmd string) error {
	ctx, cancel := context.WithTimeout(ctx, b.execTimeout)
	defer cancel()

	out, err := b.runCmd(ctx, b.binary, "exec", b.container, "sh", "-c", cmd)
	if err != nil {
		return fmt.Errorf("%w: %v: %s", chaos.ErrInjectFailed, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// IsResolved runs the template's check command inside the sandbox. Exit code
// zero means the fault is repaired; a non-zero exit means it is not. Anything
// that prevents the check from running at all is an error.
func (b *Backend) IsResolved(ctx context.Context, tpl catalog.Template) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, b.execTimeout)
	defer cancel()

	_, err := b.runCmd(ctx, b.binary, "exec", b.container, "sh", "-c", tpl.CheckCmd)
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}

	return false, errors.Join(chaos.ErrCheckFailed, err)
}

func runCombined(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}
