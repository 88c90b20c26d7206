package postmark

// Config holds Postmark notifier configuration.
type Config struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`

	SenderEmail    string `env:"SENDER_EMAIL,required"`
	RecipientEmail string `env:"NOTIFY_RECIPIENT,required"`
}
