package smtp

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlearn/lms-api/internal/ports"
)

func newTestMailer(t *testing.T) (*Mailer, *capturedSend) {
	t.Helper()
	m, err := NewMailer(Options{
		Host:     "smtp.example.com",
		From:     "no-reply@example.com",
		FromName: "Learning Platform",
	})
	require.NoError(t, err)

	captured := &capturedSend{}
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		captured.addr = addr
		captured.from = from
		captured.to = to
		captured.msg = string(msg)
		return nil
	}
	return m, captured
}

type capturedSend struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestNewMailer_Validation(t *testing.T) {
	_, err := NewMailer(Options{From: "a@b.com"})
	require.Error(t, err)

	_, err = NewMailer(Options{Host: "smtp.example.com"})
	require.Error(t, err)
}

func TestMailer_SendActivation(t *testing.T) {
	m, captured := newTestMailer(t)

	err := m.Send(context.Background(), ports.Mail{
		To:       "ada@example.com",
		Subject:  "Activate your account",
		Template: "activation.html",
		Data: map[string]any{
			"Name":           "Ada",
			"ActivationCode": "4821",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", captured.addr)
	assert.Equal(t, "no-reply@example.com", captured.from)
	assert.Equal(t, []string{"ada@example.com"}, captured.to)
	assert.Contains(t, captured.msg, "Subject: Activate your account")
	assert.Contains(t, captured.msg, "4821")
	assert.Contains(t, captured.msg, "Hi Ada")
}

func TestMailer_SendOrderConfirmation(t *testing.T) {
	m, captured := newTestMailer(t)

	err := m.Send(context.Background(), ports.Mail{
		To:       "ada@example.com",
		Subject:  "Order confirmation",
		Template: "order_confirmation.html",
		Data: map[string]any{
			"Name":       "Ada",
			"OrderID":    "ord-1",
			"CourseName": "Go Basics",
			"Price":      29.99,
			"Date":       "2024-01-01",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, captured.msg, "Go Basics")
	assert.Contains(t, captured.msg, "$29.99")
}

func TestMailer_UnknownTemplate(t *testing.T) {
	m, _ := newTestMailer(t)

	err := m.Send(context.Background(), ports.Mail{
		To:       "ada@example.com",
		Subject:  "x",
		Template: "missing.html",
	})
	require.Error(t, err)
}

func TestMailer_RequiresRecipient(t *testing.T) {
	m, _ := newTestMailer(t)

	err := m.Send(context.Background(), ports.Mail{Template: "activation.html"})
	require.Error(t, err)
}
