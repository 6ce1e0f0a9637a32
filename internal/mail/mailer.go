// Package mail sends best-effort guest notifications over SMTP.
package mail

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail through a single SMTP relay.  It is a
// silent no-op unless host, user, password and sender are all set, so
// environments without mail credentials simply skip guest mail.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func New(host, port, user, pass, from string) *Mailer {
	if host == "" || user == "" || pass == "" || from == "" {
		log.Println("[MAIL] smtp not fully configured; guest mail disabled")
		return &Mailer{}
	}
	if port == "" {
		port = "587"
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

func (m *Mailer) enabled() bool { return m.host != "" }

// Send delivers one message.  Disabled mailers return nil so callers do
// not log a failure for every guest without mail configured.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.enabled() || strings.TrimSpace(to) == "" {
		return nil
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		body,
	}, "\r\n")

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
