package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"fitcoach/coaching-app/internal/config"

	"github.com/sirupsen/logrus"
)

// smtpMailer implements Mailer over plain SMTP with optional AUTH.
type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// NewSMTPMailer creates a Mailer backed by the configured SMTP relay.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &smtpMailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

// Send delivers a multipart/alternative message with text and HTML bodies.
func (m *smtpMailer) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if to == "" || subject == "" || (textBody == "" && htmlBody == "") {
		return fmt.Errorf("mailer: recipient, subject and a body are required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	const boundary = "mail-boundary-7f3a9c"
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	if textBody != "" {
		fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&msg, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		logrus.WithError(err).WithField("to", to).Error("failed to send mail")
		return err
	}
	return nil
}
