package email

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers a plain-text message to a single recipient.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers through a configured relay using AUTH PLAIN when
// credentials are present.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

// ConsoleMailer logs mail instead of sending it. Used whenever no SMTP
// host is configured, so dev environments never need a relay.
type ConsoleMailer struct{}

func (ConsoleMailer) Send(to, subject, body string) error {
	log.Printf("mail_console to=%s subject=%q body=%q", to, subject, body)
	return nil
}
