package notification

import "errors"

var (
	// ErrFailedToSend is returned when a notification cannot be delivered.
	ErrFailedToSend = errors.New("failed to send notification")
	// ErrInvalidConfig is returned for unusable sender configuration.
	ErrInvalidConfig = errors.New("invalid notification configuration")
	// ErrInvalidMessage is returned for messages missing required fields.
	ErrInvalidMessage = errors.New("invalid notification message")
)
