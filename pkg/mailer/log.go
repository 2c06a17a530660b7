package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes messages to the log instead of sending them. Used in development.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer builds a logging transport.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Name identifies the transport in delivery logs.
func (m *LogMailer) Name() string { return "log" }

// Send logs the envelope. Bodies are omitted since they carry registrant data.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m.logger.Sugar().Infow("mail suppressed by log transport",
		"recipients", len(msg.To),
		"html_bytes", len(msg.HTML),
		"text_bytes", len(msg.Text),
	)
	return nil
}
