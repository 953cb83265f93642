// Package mailer builds and sends the service's transactional email.
package mailer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/config"
	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

// Email is a fully rendered message. It is JSON-encodable so it can sit in a queue.
type Email struct {
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type Sender interface {
	Send(ctx context.Context, e Email) error
}

// New returns an SMTP sender, or a sender that only logs when SMTP is not configured.
func New(cfg *config.Config) Sender {
	if !cfg.SMTPConfigured() {
		slog.Warn("smtp not configured, outgoing email will be logged and dropped")
		return disabledSender{}
	}
	return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	if from == "" {
		from = user
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, e Email) error {
	if strings.TrimSpace(e.To) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(s.message(e)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	slog.Info("email sent", "to", e.To, "subject", e.Subject)
	return nil
}

func (s *SMTPSender) message(e Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", e.Subject)
	m.SetBody("text/html", e.HTML)

	for _, a := range e.Attachments {
		data := a.Data
		m.Attach(a.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m
}

type disabledSender struct{}

func (disabledSender) Send(_ context.Context, e Email) error {
	slog.Warn("email config missing, skip sending", "to", e.To, "subject", e.Subject)
	return nil
}
