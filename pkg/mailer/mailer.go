// Package mailer delivers transactional e-mail through a configurable transport.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/pkg/config"
)

// Message is a single outbound e-mail.
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

// Validate checks the message has what every transport needs.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return errors.New("mailer: message has no recipients")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("mailer: message has no subject")
	}
	if m.HTML == "" && m.Text == "" {
		return errors.New("mailer: message has no body")
	}
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("mailer: invalid from address: %w", err)
	}
	return nil
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
	Name() string
}

// New builds the transport selected by cfg.Provider.
func New(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case config.MailProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, errors.New("mailer: RESEND_API_KEY is required for the resend provider")
		}
		return NewResendMailer(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.Timeout), nil
	case config.MailProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, errors.New("mailer: SMTP_HOST is required for the smtp provider")
		}
		return NewSMTPMailer(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			Timeout:  cfg.Timeout,
		}), nil
	case config.MailProviderLog, "":
		return NewLogMailer(logger), nil
	default:
		return nil, fmt.Errorf("mailer: unknown provider %q", cfg.Provider)
	}
}
