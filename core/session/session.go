package session

import (
	"time"

	"github.com/google/uuid"
)

// State classifies what Status observed.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
	StateTimeout State = "timeout"
	StateSuccess State = "success"
)

// Session is the sole mutable record of the system: the currently outstanding
// challenge, if any. It lives for the process lifetime, owned by the Manager
// and guarded by its lock. When Active is false every other field is zero;
// retirement clears the record rather than leaving stale values behind.
type Session struct {
	Active bool

	// ID identifies one activation. Retirement is guarded by it so a slow
	// status call can never clear or resurrect a newer challenge.
	ID uuid.UUID

	TemplateID     string
	StartedAt      time.Time
	LastNotifiedAt time.Time

	// Timeout and NotifyInterval are frozen per challenge at activation so a
	// config change mid-challenge does not shift an armed deadline.
	Timeout        time.Duration
	NotifyInterval time.Duration
}

// StartResult is the success payload of StartChallenge.
type StartResult struct {
	ID          uuid.UUID
	TemplateID  string
	Description string
	Explain     string
	HintsCount  int
	Timeout     time.Duration
	StartedAt   time.Time
	LoginHint   string
}

// Status is the payload of the Status operation.
type Status struct {
	State       State
	Active      bool
	TemplateID  string
	Description string
	Elapsed     time.Duration
	Remaining   time.Duration
}

// HintResult is the payload of the Hint operation. Done reports that the step
// is past the last hint, which is an expected terminal condition rather than
// an error.
type HintResult struct {
	Step    int
	Text    string
	HasMore bool
	Done    bool
}
