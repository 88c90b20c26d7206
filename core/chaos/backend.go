package chaos

import (
	"context"

	"github.com/NCNU-OpenSource/meow-server/core/catalog"
)

// Backend manipulates the sandboxed environment the trainee repairs. The core
// treats it as an external, independently synchronized service: calls may be
// slow and must never run while the session lock is held.
type Backend interface {
	// Provision resets or starts the sandbox. A failure aborts challenge
	// activation and carries a diagnostic for the caller.
	Provision(ctx context.Context) error

	// Inject executes a fault-injection command in the sandbox. Best effort;
	// the backend's own failure handling is opaque to the caller.
	Inject(ctx context.Context, cmd string) error

	// IsResolved reports whether the template's fault condition is currently
	// repaired. May execute commands inside the sandbox.
	IsResolved(ctx context.Context, tpl catalog.Template) (bool, error)
}
