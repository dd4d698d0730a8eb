package mailer

import (
	"fmt"
	"net/smtp"
	"strconv"

	"github.com/mobile-bio-lab/lab-service/internal/config"
)

// Mailer sends transactional mail. Implementations must be safe for
// concurrent use by request handlers.
type Mailer interface {
	SendVerificationEmail(to, firstName, studentID, verificationURL string) error
}

type SMTPMailer struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.EmailFrom,
	}
}

func (m *SMTPMailer) SendVerificationEmail(to, firstName, studentID, verificationURL string) error {
	subject := "Verify your email for Mobile Bio Lab"
	body := fmt.Sprintf(
		"Hello %s,\r\n\r\n"+
			"Please open the link below to verify your email address:\r\n\r\n"+
			"%s\r\n\r\n"+
			"This link is specifically for your student ID: %s\r\n\r\n"+
			"If you didn't create an account, please ignore this email.\r\n",
		firstName, verificationURL, studentID)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	if m.host == "" || m.user == "" || m.pass == "" {
		return fmt.Errorf("smtp not configured")
	}

	addr := m.host + ":" + strconv.Itoa(m.port)

	msg := "From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body + "\r\n"

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// NopMailer is used in tests and when SMTP is not configured in development.
type NopMailer struct{}

func (NopMailer) SendVerificationEmail(to, firstName, studentID, verificationURL string) error {
	return nil
}
