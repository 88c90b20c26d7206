package chaos

import "errors"

var (
	// ErrProvisionFailed is returned when the sandbox cannot be reset or started.
	ErrProvisionFailed = errors.New("failed to provision sandbox")
	// ErrInjectFailed is returned when a fault-injection command cannot be executed.
	ErrInjectFailed = errors.New("failed to inject fault")
	// ErrCheckFailed is returned when the completion check cannot be evaluated,
	// as opposed to evaluating to "not yet resolved".
	ErrCheckFailed = errors.New("failed to check fault resolution")
)
