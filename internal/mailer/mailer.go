package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Mailer delivers notification emails. Delivery is best-effort: callers
// dispatch through SendAsync and never fail a request over an email.
type Mailer interface {
	Send(to, subject, body string) error
}

// SendAsync delivers in a goroutine and logs failures. There is no retry
// and no queue; a failed email is dropped.
func SendAsync(m Mailer, to, subject, body string) {
	if m == nil || to == "" {
		return
	}
	go func() {
		if err := m.Send(to, subject, body); err != nil {
			slog.Warn("email delivery failed", "to", to, "subject", subject, "error", err)
		}
	}()
}

// LogMailer writes emails to the log instead of sending them. Used in
// development and tests.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	slog.Info("email", "to", to, "subject", subject, "body", body)
	return nil
}

// SMTPMailer sends plain-text mail over SMTP with optional auth.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
