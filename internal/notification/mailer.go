// Package notification delivers transactional email. SMTP is optional: without
// it the NoopMailer only logs what would have been sent.
package notification

import (
	"context"

	"oficina/internal/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP mailer when cfg is enabled and a NoopMailer otherwise.
func New(cfg config.SMTPConfig, log *zap.Logger) Mailer {
	if !cfg.Enabled() {
		log.Info("SMTP not configured, emails will only be logged")
		return NoopMailer{log: log}
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return err
	}
	m.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

type NoopMailer struct {
	log *zap.Logger
}

func NewNoopMailer(log *zap.Logger) NoopMailer {
	return NoopMailer{log: log}
}

func (m NoopMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info("email skipped", zap.String("to", to), zap.String("subject", subject))
	return nil
}
