// Package smtp delivers trainee notifications through a standard SMTP server,
// the original transport of the trainer (a Gmail account with an application
// password). Supports direct TLS, STARTTLS and plain connections.
package smtp
