// Package delivery sends generated proposal documents to recipients as
// email attachments over SMTP.
package delivery

import (
	"fmt"

	"github.com/go-gomail/gomail"
)

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Mailer sends proposal PDFs by email.
type Mailer struct {
	cfg  SMTPConfig
	from string
}

// NewMailer creates a Mailer sending from the given address.
func NewMailer(cfg SMTPConfig, from string) *Mailer {
	return &Mailer{cfg: cfg, from: from}
}

// Send mails the files at paths as attachments.
func (m *Mailer) Send(to, subject, body string, paths ...string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	for _, p := range paths {
		msg.Attach(p)
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("delivery: sending to %s: %w", to, err)
	}
	return nil
}
