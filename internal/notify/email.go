package notify

import (
	"context"
	"time"

	gomail "gopkg.in/mail.v2"
)

// EmailConfig holds SMTP configuration for sending emails.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
}

// Email delivers the document as a plain-text mail. Recipients are addresses.
type Email struct {
	cfg     EmailConfig
	timeout time.Duration
}

func NewEmail(cfg EmailConfig, timeout time.Duration) *Email {
	if cfg.FromEmail == "" {
		cfg.FromEmail = cfg.SMTPUser
	}
	return &Email{cfg: cfg, timeout: timeout}
}

func (e *Email) Deliver(ctx context.Context, title, body string, recipients []string) []Outcome {
	outcomes := make([]Outcome, 0, len(recipients))
	for _, to := range recipients {
		o := Outcome{Key: to}
		if err := ctx.Err(); err != nil {
			o.Detail = err.Error()
		} else if err := e.sendOnce(to, title, body); err != nil {
			o.Detail = err.Error()
		} else {
			o.Success = true
			o.Detail = "ok"
		}
		outcomes = append(outcomes, record("email", o))
	}
	return outcomes
}

func (e *Email) sendOnce(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	dialer := gomail.NewDialer(e.cfg.SMTPServer, e.cfg.SMTPPort, e.cfg.SMTPUser, e.cfg.SMTPPass)
	dialer.Timeout = e.timeout

	return dialer.DialAndSend(m)
}
