package postmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCNU-OpenSource/meow-server/core/notification"
	"github.com/NCNU-OpenSource/meow-server/integration/email/postmark"
)

func validConfig() postmark.Config {
	return postmark.Config{
		ServerToken:    "server-token",
		AccountToken:   "account-token",
		SenderEmail:    "trainer@example.com",
		RecipientEmail: "trainee@example.com",
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("accepts a valid config", func(t *testing.T) {
		t.Parallel()
		client, err := postmark.New(validConfig())
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	tests := []struct {
		name   string
		mutate func(*postmark.Config)
	}{
		{"missing server token", func(c *postmark.Config) { c.ServerToken = "" }},
		{"missing account token", func(c *postmark.Config) { c.AccountToken = "" }},
		{"invalid sender", func(c *postmark.Config) { c.SenderEmail = "nope" }},
		{"invalid recipient", func(c *postmark.Config) { c.RecipientEmail = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(&cfg)
			_, err := postmark.New(cfg)
			assert.ErrorIs(t, err, notification.ErrInvalidConfig)
		})
	}
}

func TestMustNew(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { postmark.MustNew(postmark.Config{}) })
	assert.NotNil(t, postmark.MustNew(validConfig()))
}
