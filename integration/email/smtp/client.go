package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/NCNU-OpenSource/meow-server/core/notification"
)

// Client implements notification.Sender over standard SMTP. It delivers every
// message to the single configured trainee address and supports tls, starttls
// and plain connection modes. Thread-safe for concurrent use.
type Client struct {
	config Config
	auth   smtp.Auth
}

// New creates an SMTP-backed notifier.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: Host is required", notification.ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: Port must be between 1 and 65535", notification.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: Username is required", notification.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: Password is required", notification.ErrInvalidConfig)
	}
	if cfg.TLSMode != "starttls" && cfg.TLSMode != "tls" && cfg.TLSMode != "plain" {
		return nil, fmt.Errorf("%w: TLSMode must be starttls, tls, or plain", notification.ErrInvalidConfig)
	}
	if !isValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", notification.ErrInvalidConfig)
	}
	if !isValidEmail(cfg.RecipientEmail) {
		return nil, fmt.Errorf("%w: RecipientEmail must be a valid email address", notification.ErrInvalidConfig)
	}

	return &Client{
		config: cfg,
		auth:   smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}, nil
}

// MustNew creates an SMTP notifier that panics on invalid config. Fail fast
// during initialization rather than letting a broken service start.
func MustNew(cfg Config) *Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Send implements notification.Sender.
func (c *Client) Send(ctx context.Context, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return errors.Join(notification.ErrFailedToSend, err)
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	message := c.buildMessage(msg)
	serverAddr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))

	var err error
	switch c.config.TLSMode {
	case "tls":
		err = c.sendWithTLS(serverAddr, message)
	case "starttls":
		err = c.sendWithSTARTTLS(serverAddr, message)
	case "plain":
		err = c.sendPlain(serverAddr, message)
	}

	if err != nil {
		return errors.Join(notification.ErrFailedToSend, err)
	}
	return nil
}

// buildMessage creates the MIME-formatted plain-text mail.
func (c *Client) buildMessage(msg notification.Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + c.config.SenderEmail + "\r\n")
	b.WriteString("To: " + c.config.RecipientEmail + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString(fmt.Sprintf("Message-ID: <%d.%s@%s>\r\n",
		time.Now().UnixNano(),
		strings.ReplaceAll(msg.Tag, " ", "_"),
		c.config.Host))
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// sendWithTLS sends using a direct TLS connection (e.g. port 465).
func (c *Client) sendWithTLS(serverAddr string, message []byte) error {
	conn, err := tls.Dial("tcp", serverAddr, &tls.Config{ServerName: c.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server with TLS: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	return c.transact(client, message)
}

// sendWithSTARTTLS sends using a STARTTLS upgrade (e.g. port 587).
func (c *Client) sendWithSTARTTLS(serverAddr string, message []byte) error {
	client, err := smtp.Dial(serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = client.Close() }()

	if err := client.StartTLS(&tls.Config{ServerName: c.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return c.transact(client, message)
}

// sendPlain sends without encryption.
func (c *Client) sendPlain(serverAddr string, message []byte) error {
	client, err := smtp.Dial(serverAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = client.Close() }()

	return c.transact(client, message)
}

// transact performs the SMTP transaction for an established client.
func (c *Client) transact(client *smtp.Client, message []byte) error {
	if err := client.Auth(c.auth); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	if err := client.Mail(c.config.SenderEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(c.config.RecipientEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := writer.Write(message); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	// Quit errors are non-fatal: the message was already accepted and some
	// servers close the connection right after DATA.
	_ = client.Quit()
	return nil
}

// emailRegex is a simple regex for validating email addresses.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
