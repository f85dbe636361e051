package main

import (
	"fmt"
	"net/smtp"
	"os"
	"sync"
)

// Mailer sends transactional email over SMTP. When no SMTP host is
// configured it logs the message instead, which keeps local development
// working without a mail server.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

var (
	mailerOnce sync.Once
	mailerInst *Mailer
)

func mailer() *Mailer {
	mailerOnce.Do(func() {
		mailerInst = &Mailer{
			host:     os.Getenv("SMTP_HOST"),
			port:     envOr("SMTP_PORT", "587"),
			username: os.Getenv("SMTP_USERNAME"),
			password: os.Getenv("SMTP_PASSWORD"),
			from:     envOr("SMTP_FROM", "no-reply@studentorganizer.com"),
		}
	})
	return mailerInst
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (m *Mailer) send(to, subject, body string) error {
	if m.host == "" {
		logger.Info().Str("to", to).Str("subject", subject).Msg("smtp not configured, skipping email")
		return nil
	}
	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + body + "\r\n")
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, msg)
}

func (m *Mailer) SendPasswordReset(to, name, resetURL string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received a request to reset your password. Use the link below to choose a new one. The link expires in 60 minutes.\n\n%s\n\nIf you did not request this, you can safely ignore this email.\n",
		name, resetURL)
	return m.send(to, "Reset your password", body)
}

func (m *Mailer) SendAnnouncement(to, name, title, message string) error {
	body := fmt.Sprintf("Hi %s,\n\n%s\n\n— The Student Organizer team\n", name, message)
	return m.send(to, title, body)
}
