package smtp

// Config holds SMTP notifier configuration. All fields are required for
// runtime operation so a broken mail path fails at startup, not mid-exercise.
type Config struct {
	Host     string `env:"SMTP_HOST,required"`
	Port     int    `env:"SMTP_PORT" envDefault:"465"`
	Username string `env:"SMTP_USERNAME,required"`
	Password string `env:"SMTP_PASSWORD,required"`
	TLSMode  string `env:"SMTP_TLS_MODE" envDefault:"tls"` // starttls, tls, or plain

	SenderEmail    string `env:"SENDER_EMAIL,required"`
	RecipientEmail string `env:"NOTIFY_RECIPIENT,required"`
}
