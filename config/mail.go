package config

import "time"

// MailConfig contains SMTP configuration for outbound mail.
// When Host is empty, mail delivery is disabled and mail-sending
// operations become no-ops.
type MailConfig struct {
	Host     string `env:"HOST"      envDefault:""`
	Port     int    `env:"PORT"      envDefault:"587"`
	Username string `env:"USERNAME"  envDefault:""`
	Password string `env:"PASSWORD"  envDefault:""`
	From     string `env:"FROM"      envDefault:""`
	FromName string `env:"FROM_NAME" envDefault:"OpenLearn"`

	// Timeout bounds a single delivery attempt.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether outbound mail is configured.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.From != ""
}

// Sanitize applies guardrails to mail configuration values.
func (m *MailConfig) Sanitize() {
	if m.Port <= 0 || m.Port > 65535 {
		m.Port = 587
	}
	if m.Timeout < time.Second {
		m.Timeout = 30 * time.Second
	}
}
