package notification

import (
	"context"
	"fmt"
)

// Message is one outbound notification to the trainee. The recipient is fixed
// by the sender's configuration, not carried per message.
type Message struct {
	Subject string
	Body    string
	// Tag groups related messages (e.g. "incident", "reminder") for senders
	// that support it.
	Tag string
}

// Validate checks that the message can be delivered.
func (m Message) Validate() error {
	if m.Subject == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidMessage)
	}
	if m.Body == "" {
		return fmt.Errorf("%w: Body is required", ErrInvalidMessage)
	}
	return nil
}

// Sender delivers notifications to the trainee. Implementations must be safe
// for concurrent use. Delivery failures are always non-fatal to the challenge
// lifecycle; callers log and continue.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
