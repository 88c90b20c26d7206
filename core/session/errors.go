package session

import "errors"

var (
	// ErrChallengeActive is returned when StartChallenge is called while a
	// challenge is already outstanding. The first caller to acquire the lock
	// and observe an idle session wins; everyone else gets this error.
	ErrChallengeActive = errors.New("a challenge is already active")
	// ErrNoTemplates is returned when the catalog has nothing to select.
	// A configuration error, not retryable until the catalog changes.
	ErrNoTemplates = errors.New("no fault templates defined")
	// ErrNoActiveChallenge is returned by Hint when no challenge is outstanding.
	ErrNoActiveChallenge = errors.New("no active challenge")
	// ErrTemplateNotFound signals internal inconsistency: an active challenge
	// references a template that is gone from the catalog.
	ErrTemplateNotFound = errors.New("active template not found in catalog")
	// ErrMissingDependency is returned by NewManager for nil collaborators.
	ErrMissingDependency = errors.New("catalog, backend and sender are required")
)
