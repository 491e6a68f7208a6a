package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"paperscraper/internal/config"
	"paperscraper/internal/ports"
)

// SMTPMailer delivers digests over authenticated SMTP submission.
// STARTTLS is negotiated opportunistically on the standard 587 port.
type SMTPMailer struct {
	host      string
	port      int
	username  string
	password  string
	recipient string
}

var _ ports.Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer registers transport settings and the recipient address.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		recipient: cfg.Recipient,
	}
}

// Send delivers a plain-text message to the configured recipient.
func (m *SMTPMailer) Send(ctx context.Context, subject, body string) error {
	if m.username == "" || m.password == "" || m.recipient == "" {
		return fmt.Errorf("smtp mailer misconfigured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.username)
	msg.SetHeader("To", m.recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)

	// gomail has no context support; run the dial in a goroutine so the
	// caller's cancellation is still honored.
	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send digest: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
