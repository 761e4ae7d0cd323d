package mailer

import (
	"log/slog"

	"github.com/gramatike/gramatike-api/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// Sender dispatches a transactional email. Implementations never make the
// caller fail: a failed send is logged and reported as false.
type Sender interface {
	Send(to, subject, htmlBody string) bool
}

// SMTPMailer sends through the configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	name   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	d := gomail.NewDialer(cfg.MailServer, cfg.MailPort, cfg.MailUsername, cfg.MailPassword)
	return &SMTPMailer{dialer: d, from: cfg.MailDefaultSender, name: cfg.MailSenderName}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) bool {
	if to == "" {
		return false
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.name)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		slog.Warn("email send failed", "to", to, "subject", subject, "error", err)
		return false
	}
	return true
}

// Noop discards every message. Used when SMTP is not configured and in tests.
type Noop struct{}

func (Noop) Send(to, subject, htmlBody string) bool { return false }
