// Package smtp sends transactional mail (activation codes, order
// confirmations, question replies) over SMTP with embedded HTML templates.
package smtp

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/openlearn/lms-api/internal/ports"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Options configures the SMTP mailer.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	// From is the sender address; FromName is the display name.
	From     string
	FromName string
	// Timeout bounds the SMTP dial. Defaults to 30s.
	Timeout time.Duration
}

// Mailer implements ports.Mailer over SMTP with STARTTLS when the server
// offers it.
type Mailer struct {
	opts      Options
	templates *template.Template

	// sendMail is swapped in tests to capture the assembled message.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ ports.Mailer = (*Mailer)(nil)

// NewMailer constructs the mailer and parses the embedded templates.
func NewMailer(opts Options) (*Mailer, error) {
	if opts.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if opts.From == "" {
		return nil, errors.New("smtp from address is required")
	}
	if opts.Port == 0 {
		opts.Port = 587
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}

	return &Mailer{
		opts:      opts,
		templates: tmpl,
		sendMail:  smtp.SendMail,
	}, nil
}

// Send renders the named template with the mail data and delivers it.
func (m *Mailer) Send(ctx context.Context, mail ports.Mail) error {
	if mail.To == "" {
		return errors.New("recipient is required")
	}
	if mail.Template == "" {
		return errors.New("template name is required")
	}

	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, mail.Template, mail.Data); err != nil {
		return fmt.Errorf("render template %q: %w", mail.Template, err)
	}

	msg := m.buildMessage(mail.To, mail.Subject, body.String())
	addr := net.JoinHostPort(m.opts.Host, fmt.Sprintf("%d", m.opts.Port))

	var auth smtp.Auth
	if m.opts.Username != "" {
		auth = smtp.PlainAuth("", m.opts.Username, m.opts.Password, m.opts.Host)
	}

	done := make(chan error, 1)
	go func() {
		done <- m.sendMail(addr, auth, m.opts.From, []string{mail.To}, msg)
	}()

	timer := time.NewTimer(m.opts.Timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("smtp send to %s timed out", mail.To)
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}

func (m *Mailer) buildMessage(to, subject, htmlBody string) []byte {
	from := m.opts.From
	if m.opts.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.opts.FromName, m.opts.From)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")
	return []byte(msg.String())
}
