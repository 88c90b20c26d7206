package smtp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCNU-OpenSource/meow-server/core/notification"
	"github.com/NCNU-OpenSource/meow-server/integration/email/smtp"
)

func validConfig() smtp.Config {
	return smtp.Config{
		Host:           "smtp.gmail.com",
		Port:           465,
		Username:       "trainer@example.com",
		Password:       "app-password",
		TLSMode:        "tls",
		SenderEmail:    "trainer@example.com",
		RecipientEmail: "trainee@example.com",
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid config", func(t *testing.T) {
		t.Parallel()
		client, err := smtp.New(validConfig())
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	tests := []struct {
		name   string
		mutate func(*smtp.Config)
	}{
		{"missing host", func(c *smtp.Config) { c.Host = "" }},
		{"port out of range", func(c *smtp.Config) { c.Port = 0 }},
		{"missing username", func(c *smtp.Config) { c.Username = "" }},
		{"missing password", func(c *smtp.Config) { c.Password = "" }},
		{"unknown tls mode", func(c *smtp.Config) { c.TLSMode = "ssl3" }},
		{"invalid sender", func(c *smtp.Config) { c.SenderEmail = "not-an-email" }},
		{"invalid recipient", func(c *smtp.Config) { c.RecipientEmail = "@nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)
			_, err := smtp.New(cfg)
			assert.ErrorIs(t, err, notification.ErrInvalidConfig)
		})
	}
}

func TestMustNew(t *testing.T) {
	t.Parallel()

	t.Run("panics on invalid config", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { smtp.MustNew(smtp.Config{}) })
	})

	t.Run("returns a client for valid config", func(t *testing.T) {
		t.Parallel()
		assert.NotNil(t, smtp.MustNew(validConfig()))
	})
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	t.Run("rejects an invalid message before dialing", func(t *testing.T) {
		t.Parallel()

		client := smtp.MustNew(validConfig())
		err := client.Send(context.Background(), notification.Message{Subject: "no body"})
		assert.ErrorIs(t, err, notification.ErrInvalidMessage)
	})

	t.Run("honors a cancelled context before dialing", func(t *testing.T) {
		t.Parallel()

		client := smtp.MustNew(validConfig())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := client.Send(ctx, notification.Message{
			Subject: "fault injected",
			Body:    "a fault is live in the sandbox",
			Tag:     notification.TagIncident,
		})
		assert.ErrorIs(t, err, notification.ErrFailedToSend)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
