package mailer

import (
	"gopkg.in/gomail.v2"

	"github.com/samidafali/education-backend/internal/config"
)

// Mailer delivers notification mail. Delivery is best-effort: callers log a
// failure and carry on, it never affects enrollment or payment state.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// Noop is used when no SMTP server is configured.
type Noop struct{}

func (Noop) Send(to, subject, body string) error { return nil }
